package screen

import (
	"context"
	"image"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/adapter"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
)

const (
	actionLoadReport = "load-report"
	actionAddComment = "add-comment"
)

// DetailState is the view state of the report detail screen.
type DetailState struct {
	Status Status
	Report *api.Report
	// Posted is the report's creation date as YYYY-MM-DD.
	Posted        string
	Image         image.Image
	AuthorPicture image.Image

	CommentsStatus Status
	Comments       []adapter.CommentRow
	CommentStatus  Status
	Draft          string
}

// Detail shows one report and its comments.
type Detail struct {
	base[DetailState]
	reportID int
}

// NewDetail creates the detail controller for reportID.
func NewDetail(deps Deps, reportID int) *Detail {
	d := &Detail{reportID: reportID}
	d.init("detail", deps)
	d.logger = d.logger.With(slog.Int("report_id", reportID))
	return d
}

// ReportID returns the report this screen shows.
func (d *Detail) ReportID() int {
	return d.reportID
}

// Load fetches the report and its comments concurrently. A comment failure
// leaves the list empty without telling the user.
func (d *Detail) Load() (*Task[DetailState], error) {
	if err := d.begin(actionLoadReport); err != nil {
		return nil, err
	}
	d.update(func(s *DetailState) {
		s.Status = Loading
		s.CommentsStatus = Loading
	})

	return run(&d.base, actionLoadReport, func(ctx context.Context) (DetailState, error) {
		var (
			report      *api.Report
			comments    []api.Comment
			commentsErr error
			g           errgroup.Group
		)
		g.Go(func() error {
			var err error
			report, err = d.deps.API.GetReport(ctx, d.reportID)
			return err
		})
		g.Go(func() error {
			comments, commentsErr = d.deps.API.ListComments(ctx, d.reportID)
			return nil
		})
		reportErr := g.Wait()

		if commentsErr != nil {
			d.logger.Debug("failed to load comments", slog.String("error", commentsErr.Error()))
		}
		rows := adapter.CommentRows(comments, d.deps.Decode)

		var reportImage, authorPicture image.Image
		if reportErr == nil {
			if report.Image != "" {
				reportImage = adapter.Picture(d.deps.Decode, report.Image)
			}
			if report.UserProfilePicture != "" {
				authorPicture = adapter.Picture(d.deps.Decode, report.UserProfilePicture)
			}
		}

		var snapshot DetailState
		applied := d.update(func(s *DetailState) {
			if commentsErr != nil {
				s.CommentsStatus = Failed
			} else {
				s.CommentsStatus = Succeeded
				s.Comments = rows
			}
			if reportErr != nil {
				s.Status = Failed
			} else {
				s.Status = Succeeded
				s.Report = report
				s.Posted = api.ShortDate(report.CreatedAt)
				s.Image = reportImage
				s.AuthorPicture = authorPicture
			}
			snapshot = *s
		})
		if !applied {
			return DetailState{}, ErrClosed
		}
		if reportErr != nil {
			return snapshot, d.fail(actionLoadReport, "Failed to load report", reportErr)
		}
		return snapshot, nil
	}), nil
}

// AddComment posts text and appends the stored comment to the list.
func (d *Detail) AddComment(text string) (*Task[*api.Comment], error) {
	if err := d.begin(actionAddComment); err != nil {
		return nil, err
	}

	form := commentForm{Comment: strings.TrimSpace(text)}
	if msg := check(form, map[string]string{"required": "Please enter a comment"}); msg != "" {
		return nil, d.invalid(actionAddComment, msg)
	}

	d.update(func(s *DetailState) {
		s.CommentStatus = Loading
		s.Draft = text
	})

	return run(&d.base, actionAddComment, func(ctx context.Context) (*api.Comment, error) {
		resp, err := d.deps.API.AddComment(ctx, d.reportID, api.AddCommentRequest{Comment: form.Comment})
		if err != nil {
			d.update(func(s *DetailState) { s.CommentStatus = Failed })
			return nil, d.fail(actionAddComment, "Failed to add comment", err)
		}

		row := adapter.CommentRows([]api.Comment{resp.Comment}, d.deps.Decode)
		if !d.update(func(s *DetailState) {
			s.CommentStatus = Succeeded
			s.Draft = ""
			comments := make([]adapter.CommentRow, 0, len(s.Comments)+1)
			s.Comments = append(append(comments, s.Comments...), row...)
		}) {
			return nil, ErrClosed
		}
		d.toast("Comment added")
		return &resp.Comment, nil
	}), nil
}

// Back leaves the detail screen.
func (d *Detail) Back() {
	d.navigate(Back{})
}
