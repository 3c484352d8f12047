package screen

import (
	"context"
	"log/slog"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/adapter"
)

const (
	actionSearch = "search"

	// HintStart is shown while the query is empty.
	HintStart = "Start typing to search..."
	// HintNoResults is shown when a search matched nothing.
	HintNoResults = "No results found"
)

// SearchState is the view state of the search screen.
type SearchState struct {
	Status  Status
	Query   string
	Results []adapter.ReportRow
	Hint    string
}

// Search runs a query on every change of the search box.
//
// Each query gets a sequence number. A new query cancels the one in flight,
// and results are applied only while their query is still the latest, so
// what is shown always belongs to the most recent request.
type Search struct {
	base[SearchState]

	// guarded by base.mu
	seq     uint64
	current *Task[[]adapter.ReportRow]
}

// NewSearch creates the search controller.
func NewSearch(deps Deps) *Search {
	s := &Search{}
	s.init("search", deps)
	s.state.Hint = HintStart
	return s
}

// QueryChanged starts a search for q. An empty q clears the results.
// The returned task fails with ErrStale if a later query supersedes it.
func (s *Search) QueryChanged(q string) (*Task[[]adapter.ReportRow], error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.seq++
	seq := s.seq
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	if q == "" {
		s.update(func(st *SearchState) {
			*st = SearchState{Status: Idle, Hint: HintStart}
		})
		return completed[[]adapter.ReportRow](nil, nil), nil
	}

	s.update(func(st *SearchState) {
		st.Status = Loading
		st.Query = q
		st.Hint = ""
	})

	task := Go(s.ctx, func(ctx context.Context) ([]adapter.ReportRow, error) {
		reports, err := s.deps.API.SearchReports(ctx, q)
		if err != nil {
			if applyErr := s.apply(seq, func(st *SearchState) { st.Status = Failed }); applyErr != nil {
				return nil, applyErr
			}
			return nil, s.fail(actionSearch, "Search failed", err)
		}

		rows := adapter.ReportRows(reports, s.deps.Decode)
		err = s.apply(seq, func(st *SearchState) {
			st.Status = Succeeded
			st.Results = rows
			st.Hint = ""
			if len(rows) == 0 {
				st.Hint = HintNoResults
			}
		})
		if err != nil {
			return nil, err
		}
		return rows, nil
	})

	s.mu.Lock()
	superseded := s.seq != seq
	if !superseded {
		s.current = task
	}
	s.mu.Unlock()

	if superseded {
		task.Cancel()
	}

	return task, nil
}

// apply mutates state only if seq is still the latest query.
func (s *Search) apply(seq uint64, fn func(*SearchState)) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.seq != seq:
		s.mu.Unlock()
		s.logger.Debug("dropping superseded search result", slog.Uint64("seq", seq))
		return ErrStale
	}
	fn(&s.state)
	snapshot := s.state
	s.mu.Unlock()

	s.deps.Sink.Render(snapshot)
	return nil
}

// Open shows a report's details.
func (s *Search) Open(reportID int) {
	s.navigate(ToReport{ReportID: reportID})
}
