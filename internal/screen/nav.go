package screen

import "fmt"

// Event is a navigation request. The concrete types below are the only ones.
type Event interface {
	fmt.Stringer
	isEvent()
}

// ToMain opens the main screen (dashboard, search, create, profile).
type ToMain struct{}

// ToLogin opens the login screen.
type ToLogin struct{}

// ToRegister opens the registration screen.
type ToRegister struct{}

// ToReport opens the detail screen of one report.
type ToReport struct {
	ReportID int
}

// Back leaves the current screen.
type Back struct{}

func (ToMain) isEvent() {}
func (ToLogin) isEvent() {}
func (ToRegister) isEvent() {}
func (ToReport) isEvent() {}
func (Back) isEvent() {}

func (ToMain) String() string { return "main" }
func (ToLogin) String() string { return "login" }
func (ToRegister) String() string { return "register" }
func (e ToReport) String() string { return fmt.Sprintf("report/%d", e.ReportID) }
func (Back) String() string { return "back" }
