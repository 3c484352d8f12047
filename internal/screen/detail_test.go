package screen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
)

func TestDetail_LoadAndComment(t *testing.T) {
	deps, rec, _, _ := newLoggedIn(t)
	ctx := context.Background()

	points, err := deps.API.ListMeetupPoints(ctx)
	require.NoError(t, err)
	created, err := deps.API.CreateReport(ctx, api.CreateReportRequest{
		Title: "Keys", Description: "Three keys", Image: mustDataURI(t), MeetupPointID: points[0].ID,
	})
	require.NoError(t, err)
	_, err = deps.API.AddComment(ctx, created.Report.ID, api.AddCommentRequest{Comment: "first"})
	require.NoError(t, err)

	detail := NewDetail(deps, created.Report.ID)
	defer detail.Close()
	assert.Equal(t, created.Report.ID, detail.ReportID())

	load, err := detail.Load()
	require.NoError(t, err)
	state, err := load.Wait()
	require.NoError(t, err)

	require.NotNil(t, state.Report)
	assert.Equal(t, "Keys", state.Report.Title)
	assert.Equal(t, points[0].Name, state.Report.MeetupPointName)
	assert.Len(t, state.Posted, 10)
	assert.NotNil(t, state.Image)
	assert.Nil(t, state.AuthorPicture)
	require.Len(t, state.Comments, 1)
	assert.Equal(t, "first", state.Comments[0].Comment)

	_, err = detail.AddComment("  ")
	assert.ErrorIs(t, err, ErrInvalid)

	add, err := detail.AddComment("Is this yours?")
	require.NoError(t, err)
	comment, err := add.Wait()
	require.NoError(t, err)
	assert.Equal(t, "Ann", comment.UserName)

	state = detail.State()
	require.Len(t, state.Comments, 2)
	assert.Equal(t, "Is this yours?", state.Comments[1].Comment)
	assert.Empty(t, state.Draft)
	assert.Equal(t, Succeeded, state.CommentStatus)

	detail.Back()
	assert.Equal(t, []string{"Please enter a comment", "Comment added"}, rec.Toasts())
	assert.Equal(t, []Event{Back{}}, rec.Events())
}

func TestDetail_CommentFailureIsSilent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/reports/5":
			_ = json.NewEncoder(w).Encode(api.Report{ID: 5, Title: "Wallet", Image: "data:image/jpeg;base64,@@@", CreatedAt: "2024-03-01T10:22:00.000Z"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer ts.Close()
	deps, rec, _ := newDeps(t, ts.URL)

	detail := NewDetail(deps, 5)
	load, err := detail.Load()
	require.NoError(t, err)
	state, err := load.Wait()
	require.NoError(t, err)

	assert.Equal(t, "Wallet", state.Report.Title)
	assert.Equal(t, "2024-03-01", state.Posted)
	assert.NotNil(t, state.Image, "undecodable image degrades to the placeholder")
	assert.Equal(t, Failed, state.CommentsStatus)
	assert.Empty(t, state.Comments)
	assert.Empty(t, rec.Toasts())
}

func TestDetail_ReportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/api/reports/9/comments" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Report not found"}`))
	}))
	defer ts.Close()
	deps, rec, _ := newDeps(t, ts.URL)

	detail := NewDetail(deps, 9)
	load, err := detail.Load()
	require.NoError(t, err)
	state, err := load.Wait()
	require.Error(t, err)

	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, Failed, state.Status)
	assert.Nil(t, state.Report)
	assert.Equal(t, []string{"Failed to load report"}, rec.Toasts())

	add, err := detail.AddComment("hello")
	require.NoError(t, err)
	_, err = add.Wait()
	require.Error(t, err)
	assert.Equal(t, []string{"Failed to load report", "Failed to add comment"}, rec.Toasts())
}
