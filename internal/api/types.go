package api

// User is the server's view of an account.
type User struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// MeetupPoint is a predefined hand-off location.
type MeetupPoint struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Label renders the point the way pickers show it.
func (m MeetupPoint) Label() string {
	return m.Name + " - " + m.Location
}

// Report describes a lost or found item.
type Report struct {
	ID                  int    `json:"id"`
	UserID              int    `json:"user_id"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	Image               string `json:"image,omitempty"` // data: URI or raw base64
	MeetupPointID       int    `json:"meetup_point_id"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at,omitempty"`
	UserName            string `json:"user_name,omitempty"`
	UserProfilePicture  string `json:"user_profile_picture,omitempty"`
	MeetupPointName     string `json:"meetup_point_name,omitempty"`
	MeetupPointLocation string `json:"meetup_point_location,omitempty"`
}

// Comment is a single note on a report.
type Comment struct {
	ID                 int    `json:"id"`
	ReportID           int    `json:"report_id"`
	UserID             int    `json:"user_id"`
	Comment            string `json:"comment"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at,omitempty"`
	UserName           string `json:"user_name,omitempty"`
	UserProfilePicture string `json:"user_profile_picture,omitempty"`
}

// RegisterRequest is the request for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned by Register.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int    `json:"userId"`
}

// LoginRequest is the request for obtaining a session token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by Login.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// UpdateProfileRequest is the request for changing the current user.
// An empty ProfilePicture leaves the picture unchanged.
type UpdateProfileRequest struct {
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// UpdateProfileResponse is returned by UpdateProfile.
type UpdateProfileResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// CreateReportRequest is the request for filing a report.
type CreateReportRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	MeetupPointID int    `json:"meetup_point_id"`
}

// CreateReportResponse is returned by CreateReport.
type CreateReportResponse struct {
	Message string `json:"message"`
	Report  Report `json:"report"`
}

// AddCommentRequest is the request for commenting on a report.
type AddCommentRequest struct {
	Comment string `json:"comment"`
}

// AddCommentResponse is returned by AddComment.
type AddCommentResponse struct {
	Message string  `json:"message"`
	Comment Comment `json:"comment"`
}

// ShortDate returns the YYYY-MM-DD prefix of a server timestamp, or the
// input unchanged when it is shorter than that.
func ShortDate(ts string) string {
	if len(ts) < 10 {
		return ts
	}
	return ts[:10]
}
