package screen

import (
	"context"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/adapter"
)

const actionLoadReports = "load-reports"

// DashboardState is the view state of the report list.
type DashboardState struct {
	Status  Status
	Reports []adapter.ReportRow
}

// Empty reports whether a successful load returned no reports.
func (s DashboardState) Empty() bool {
	return s.Status == Succeeded && len(s.Reports) == 0
}

// Dashboard lists every report, newest first.
type Dashboard struct {
	base[DashboardState]
}

// NewDashboard creates the dashboard controller.
func NewDashboard(deps Deps) *Dashboard {
	d := &Dashboard{}
	d.init("dashboard", deps)
	return d
}

// Load fetches the reports and replaces the list.
func (d *Dashboard) Load() (*Task[[]adapter.ReportRow], error) {
	if err := d.begin(actionLoadReports); err != nil {
		return nil, err
	}
	d.update(func(s *DashboardState) { s.Status = Loading })

	return run(&d.base, actionLoadReports, func(ctx context.Context) ([]adapter.ReportRow, error) {
		reports, err := d.deps.API.ListReports(ctx)
		if err != nil {
			d.update(func(s *DashboardState) { s.Status = Failed })
			return nil, d.fail(actionLoadReports, "Failed to load reports", err)
		}

		rows := adapter.ReportRows(reports, d.deps.Decode)
		if !d.update(func(s *DashboardState) {
			s.Status = Succeeded
			s.Reports = rows
		}) {
			return nil, ErrClosed
		}
		return rows, nil
	}), nil
}

// Open shows a report's details.
func (d *Dashboard) Open(reportID int) {
	d.navigate(ToReport{ReportID: reportID})
}
