package apitest

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
)

// timestampLayout matches the server's JSON rendering of DATETIME columns.
const timestampLayout = "2006-01-02T15:04:05.000Z"

var (
	errDuplicateEmail = errors.New("email already exists")
	errNotFound       = errors.New("not found")
)

type userRecord struct {
	api.User
	passwordHash []byte
}

// store is the in-memory database behind Server.
type store struct {
	mu sync.RWMutex

	now func() time.Time

	users    map[int]*userRecord
	byEmail  map[string]int
	points   map[int]api.MeetupPoint
	reports  []api.Report // insertion order
	comments []api.Comment

	nextUserID    int
	nextReportID  int
	nextCommentID int
}

func newStore(now func() time.Time, points []api.MeetupPoint) *store {
	s := &store{
		now:           now,
		users:         make(map[int]*userRecord),
		byEmail:       make(map[string]int),
		points:        make(map[int]api.MeetupPoint),
		nextUserID:    1,
		nextReportID:  1,
		nextCommentID: 1,
	}
	for i, p := range points {
		if p.ID == 0 {
			p.ID = i + 1
		}
		if p.CreatedAt == "" {
			p.CreatedAt = s.stamp()
		}
		s.points[p.ID] = p
	}
	return s
}

func (s *store) stamp() string {
	return s.now().UTC().Format(timestampLayout)
}

func (s *store) createUser(name, email string, hash []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return 0, errDuplicateEmail
	}

	id := s.nextUserID
	s.nextUserID++
	s.users[id] = &userRecord{
		User:         api.User{ID: id, Name: name, Email: email, CreatedAt: s.stamp()},
		passwordHash: hash,
	}
	s.byEmail[email] = id
	return id, nil
}

func (s *store) userByEmail(email string) (userRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return userRecord{}, false
	}
	return *s.users[id], true
}

func (s *store) user(id int) (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return api.User{}, false
	}
	return u.User, true
}

// updateUser applies the non-empty fields.
func (s *store) updateUser(id int, name, picture string) (api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return api.User{}, errNotFound
	}
	if name != "" {
		u.Name = name
	}
	if picture != "" {
		u.ProfilePicture = picture
	}
	return u.User, nil
}

func (s *store) meetupPoints() []api.MeetupPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.MeetupPoint, 0, len(s.points))
	for _, p := range s.points {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *store) createReport(userID int, title, description, image string, pointID int) (api.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return api.Report{}, errNotFound
	}
	if _, ok := s.points[pointID]; !ok {
		return api.Report{}, errNotFound
	}

	ts := s.stamp()
	r := api.Report{
		ID:            s.nextReportID,
		UserID:        userID,
		Title:         title,
		Description:   description,
		Image:         image,
		MeetupPointID: pointID,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	s.nextReportID++
	s.reports = append(s.reports, r)
	return s.joinReport(r), nil
}

// joinReport fills the denormalized user and meetup point columns.
// The caller must hold mu.
func (s *store) joinReport(r api.Report) api.Report {
	if u, ok := s.users[r.UserID]; ok {
		r.UserName = u.Name
		r.UserProfilePicture = u.ProfilePicture
	}
	if p, ok := s.points[r.MeetupPointID]; ok {
		r.MeetupPointName = p.Name
		r.MeetupPointLocation = p.Location
	}
	return r
}

// listReports returns reports newest first, optionally filtered by a
// case-insensitive substring of title or description.
func (s *store) listReports(query string) []api.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	out := make([]api.Report, 0, len(s.reports))
	for i := len(s.reports) - 1; i >= 0; i-- {
		r := s.reports[i]
		if needle != "" &&
			!strings.Contains(strings.ToLower(r.Title), needle) &&
			!strings.Contains(strings.ToLower(r.Description), needle) {
			continue
		}
		out = append(out, s.joinReport(r))
	}
	return out
}

func (s *store) report(id int) (api.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reports {
		if r.ID == id {
			return s.joinReport(r), true
		}
	}
	return api.Report{}, false
}

func (s *store) addComment(reportID, userID int, text string) (api.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return api.Comment{}, errNotFound
	}
	found := false
	for _, r := range s.reports {
		if r.ID == reportID {
			found = true
			break
		}
	}
	if !found {
		return api.Comment{}, errNotFound
	}

	ts := s.stamp()
	c := api.Comment{
		ID:        s.nextCommentID,
		ReportID:  reportID,
		UserID:    userID,
		Comment:   text,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	s.nextCommentID++
	s.comments = append(s.comments, c)
	return s.joinComment(c), nil
}

// joinComment fills the author columns. The caller must hold mu.
func (s *store) joinComment(c api.Comment) api.Comment {
	if u, ok := s.users[c.UserID]; ok {
		c.UserName = u.Name
		c.UserProfilePicture = u.ProfilePicture
	}
	return c
}

// listComments returns a report's comments oldest first.
func (s *store) listComments(reportID int) []api.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.Comment, 0)
	for _, c := range s.comments {
		if c.ReportID == reportID {
			out = append(out, s.joinComment(c))
		}
	}
	return out
}
