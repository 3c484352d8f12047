package apitest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
)

// bcryptCost matches the production server.
const bcryptCost = 10

type registerInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileInput struct {
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
}

type reportInput struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description" validate:"required"`
	Image         string `json:"image" validate:"required"`
	MeetupPointID int    `json:"meetup_point_id" validate:"required"`
}

type commentInput struct {
	Comment string `json:"comment" validate:"required"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decode reads a JSON body into v and validates it. On failure it answers
// 400 with message and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}, message string) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, message)
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, message)
		return false
	}
	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if !s.decode(w, r, &in, "All fields are required") {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	id, err := s.store.createUser(in.Name, in.Email, hash)
	if errors.Is(err, errDuplicateEmail) {
		writeError(w, http.StatusConflict, "Email already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, api.RegisterResponse{
		Message: "User registered successfully",
		UserID:  id,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if !s.decode(w, r, &in, "Email and password required") {
		return
	}

	rec, ok := s.store.userByEmail(in.Email)
	if !ok || bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(in.Password)) != nil {
		s.metrics.loginFailures.Inc()
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.IssueToken(rec.ID, rec.Email)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, api.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User: api.User{
			ID:             rec.ID,
			Name:           rec.Name,
			Email:          rec.Email,
			ProfilePicture: rec.ProfilePicture,
		},
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := s.store.user(currentUser(r.Context()).UserID)
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in profileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	var picture string
	if in.ProfilePicture != "" {
		var err error
		if picture, err = compressImage(in.ProfilePicture); err != nil {
			s.logger.Warn("failed to compress profile picture", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	if in.Name == "" && picture == "" {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	u, err := s.store.updateUser(currentUser(r.Context()).UserID, in.Name, picture)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	u.CreatedAt = ""

	writeJSON(w, http.StatusOK, api.UpdateProfileResponse{
		Message: "Profile updated successfully",
		User:    u,
	})
}

func (s *Server) handleMeetupPoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.meetupPoints())
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listReports(""))
}

func (s *Server) handleSearchReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "Search query required")
		return
	}
	writeJSON(w, http.StatusOK, s.store.listReports(q))
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}

	report, ok := s.store.report(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var in reportInput
	if !s.decode(w, r, &in, "All fields are required") {
		return
	}

	image, err := compressImage(in.Image)
	if err != nil {
		s.logger.Warn("failed to compress report image", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to create report")
		return
	}

	report, err := s.store.createReport(currentUser(r.Context()).UserID, in.Title, in.Description, image, in.MeetupPointID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create report")
		return
	}
	s.metrics.reportsCreated.Inc()

	writeJSON(w, http.StatusCreated, api.CreateReportResponse{
		Message: "Report created successfully",
		Report:  report,
	})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}
	writeJSON(w, http.StatusOK, s.store.listComments(id))
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var in commentInput
	if !s.decode(w, r, &in, "Comment is required") {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}

	comment, err := s.store.addComment(id, currentUser(r.Context()).UserID, in.Comment)
	if errors.Is(err, errNotFound) {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}
	s.metrics.commentsAdded.Inc()

	writeJSON(w, http.StatusCreated, api.AddCommentResponse{
		Message: "Comment added successfully",
		Comment: comment,
	})
}
