// Package adapter turns API records into display rows.
package adapter

import (
	"fmt"
	"image"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/imaging"
)

// Decoder turns an API image field into an image.
type Decoder func(string) (image.Image, error)

// ReportRow is one line of a report list.
type ReportRow struct {
	ID          int
	Title       string
	Description string
	MeetupPoint string
	// Thumbnail is nil when the report has no image and the placeholder when
	// the image could not be decoded.
	Thumbnail image.Image
}

// CommentRow is one line of a comment list.
type CommentRow struct {
	ID       int
	UserName string
	Comment  string
	Date     string
	Avatar   image.Image
}

// ReportRows maps reports to rows. A nil decode uses imaging.Decode.
func ReportRows(reports []api.Report, decode Decoder) []ReportRow {
	decode = orDefault(decode)

	rows := make([]ReportRow, 0, len(reports))
	for _, r := range reports {
		row := ReportRow{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			MeetupPoint: r.MeetupPointName,
		}
		if r.Image != "" {
			row.Thumbnail = Picture(decode, r.Image)
		}
		rows = append(rows, row)
	}
	return rows
}

// CommentRows maps comments to rows. Authors without a picture get the
// placeholder avatar.
func CommentRows(comments []api.Comment, decode Decoder) []CommentRow {
	decode = orDefault(decode)

	rows := make([]CommentRow, 0, len(comments))
	for _, c := range comments {
		row := CommentRow{
			ID:       c.ID,
			UserName: c.UserName,
			Comment:  c.Comment,
			Date:     api.ShortDate(c.CreatedAt),
			Avatar:   imaging.Placeholder(),
		}
		if c.UserProfilePicture != "" {
			row.Avatar = Picture(decode, c.UserProfilePicture)
		}
		rows = append(rows, row)
	}
	return rows
}

func orDefault(decode Decoder) Decoder {
	if decode == nil {
		return imaging.Decode
	}
	return decode
}

// Picture decodes s with decode, or imaging.Decode when decode is nil.
// Undecodable input yields the placeholder.
func Picture(decode Decoder, s string) image.Image {
	img, err := orDefault(decode)(s)
	if err != nil || img == nil {
		return imaging.Placeholder()
	}
	return img
}

// ImageLabel describes an image for text output: "WxH", "placeholder" or "-".
func ImageLabel(img image.Image) string {
	switch {
	case img == nil:
		return "-"
	case imaging.IsPlaceholder(img):
		return "placeholder"
	default:
		b := img.Bounds()
		return fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
	}
}

const maxCellWidth = 48

// RenderReports writes report rows as an aligned table.
func RenderReports(w io.Writer, rows []ReportRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDESCRIPTION\tMEETUP POINT\tIMAGE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			strconv.Itoa(r.ID),
			truncate(r.Title, maxCellWidth),
			truncate(r.Description, maxCellWidth),
			r.MeetupPoint,
			ImageLabel(r.Thumbnail),
		)
	}
	return tw.Flush()
}

// RenderComments writes comment rows as an aligned table.
func RenderComments(w io.Writer, rows []CommentRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tUSER\tCOMMENT\tAVATAR")
	for _, c := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Date, c.UserName, c.Comment, ImageLabel(c.Avatar))
	}
	return tw.Flush()
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
