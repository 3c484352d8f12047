package screen

import (
	"context"
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/imaging"
)

const (
	actionLoadPoints   = "load-meetup-points"
	actionCreateReport = "create-report"
)

// CreateState is the view state of the report form.
type CreateState struct {
	Status       Status
	PointsStatus Status
	MeetupPoints []api.MeetupPoint
	// Options are the picker labels, one per meetup point.
	Options  []string
	Selected int

	Title       string
	Description string
	// Preview is the resized picture; nil until one is selected.
	Preview image.Image
	// ImageURI is the encoded picture that will be uploaded.
	ImageURI string
}

// Create is the controller of the new-report form.
type Create struct {
	base[CreateState]
}

// NewCreate creates the report form controller.
func NewCreate(deps Deps) *Create {
	c := &Create{}
	c.init("create", deps)
	return c
}

// LoadMeetupPoints fills the meetup point picker.
func (c *Create) LoadMeetupPoints() (*Task[[]api.MeetupPoint], error) {
	if err := c.begin(actionLoadPoints); err != nil {
		return nil, err
	}
	c.update(func(s *CreateState) { s.PointsStatus = Loading })

	return run(&c.base, actionLoadPoints, func(ctx context.Context) ([]api.MeetupPoint, error) {
		points, err := c.deps.API.ListMeetupPoints(ctx)
		if err != nil {
			c.update(func(s *CreateState) { s.PointsStatus = Failed })
			return nil, c.fail(actionLoadPoints, "Failed to load meetup points", err)
		}

		options := make([]string, len(points))
		for i, p := range points {
			options[i] = p.Label()
		}
		if !c.update(func(s *CreateState) {
			s.PointsStatus = Succeeded
			s.MeetupPoints = points
			s.Options = options
			s.Selected = 0
		}) {
			return nil, ErrClosed
		}
		return points, nil
	}), nil
}

// SelectImage decodes, resizes and encodes the picked picture.
func (c *Create) SelectImage(r io.Reader) error {
	up, err := imaging.Prepare(r)
	if err != nil {
		c.logger.Warn("failed to load image", slog.String("error", err.Error()))
		c.toast("Failed to load image")
		return &Error{Message: "Failed to load image", Err: err}
	}

	c.update(func(s *CreateState) {
		s.Preview = up.Preview
		s.ImageURI = up.DataURI
	})
	return nil
}

// Submit files the report using the meetup point at meetupIndex in the
// loaded picker. The form is reset on success.
func (c *Create) Submit(title, description string, meetupIndex int) (*Task[*api.Report], error) {
	if err := c.begin(actionCreateReport); err != nil {
		return nil, err
	}

	current := c.State()
	form := reportForm{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Image:       current.ImageURI,
		Points:      len(current.MeetupPoints),
		Index:       meetupIndex,
	}
	msg := check(form, map[string]string{
		"Title.required":       "Please enter a title",
		"Description.required": "Please enter a description",
		"Image.required":       "Please select an image",
		"Points.gt":            "No meetup points available",
		"Index.gte":            "Please select a meetup point",
		"Index.ltfield":        "Please select a meetup point",
	})
	if msg != "" {
		return nil, c.invalid(actionCreateReport, msg)
	}

	req := api.CreateReportRequest{
		Title:         form.Title,
		Description:   form.Description,
		Image:         form.Image,
		MeetupPointID: current.MeetupPoints[meetupIndex].ID,
	}

	c.update(func(s *CreateState) {
		s.Status = Loading
		s.Title = form.Title
		s.Description = form.Description
		s.Selected = meetupIndex
	})

	return run(&c.base, actionCreateReport, func(ctx context.Context) (*api.Report, error) {
		resp, err := c.deps.API.CreateReport(ctx, req)
		if err != nil {
			c.update(func(s *CreateState) { s.Status = Failed })
			return nil, c.fail(actionCreateReport, "Failed to create report", err)
		}

		if !c.update(func(s *CreateState) {
			s.Status = Succeeded
			s.Title = ""
			s.Description = ""
			s.Preview = nil
			s.ImageURI = ""
			s.Selected = 0
		}) {
			return nil, ErrClosed
		}
		c.toast("Report created successfully!")
		return &resp.Report, nil
	}), nil
}
