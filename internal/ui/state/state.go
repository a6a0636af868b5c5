package state

import (
	"strings"
	"unicode/utf8"

	"trialsearch/internal/domain"
)

// TriggerResult tells the caller what a fired debounce timer should do
type TriggerResult int

const (
	// TriggerStale means a newer query change superseded this timer
	TriggerStale TriggerResult = iota
	// TriggerCleared means the query was too short and results were cleared
	TriggerCleared
	// TriggerFire means a request should be issued for the query
	TriggerFire
)

// SearchState contains the search component state.
// Every mutation goes through one of the event methods below.
type SearchState struct {
	Query    string
	Results  []domain.Trial
	Loading  bool
	Error    string
	Selected int // index into Visible()

	MinQueryLength int
	MaxDisplay     int
	ErrorMessage   string

	debounceTag int // bumped on every query change
	requestSeq  int // sequence of the latest issued request
}

// NewSearchState creates a new search state
func NewSearchState(minQueryLength, maxDisplay int, errorMessage string) *SearchState {
	return &SearchState{
		Results:        make([]domain.Trial, 0),
		MinQueryLength: minQueryLength,
		MaxDisplay:     maxDisplay,
		ErrorMessage:   errorMessage,
	}
}

// SetQuery records new input and returns the tag its debounce timer must carry
func (s *SearchState) SetQuery(query string) int {
	s.Query = query
	s.debounceTag++
	return s.debounceTag
}

// DebounceTag returns the tag of the most recent query change
func (s *SearchState) DebounceTag() int {
	return s.debounceTag
}

// Trigger is called when a debounce timer expires
func (s *SearchState) Trigger(tag int) (TriggerResult, string) {
	if tag != s.debounceTag {
		return TriggerStale, ""
	}
	if utf8.RuneCountInString(strings.TrimSpace(s.Query)) < s.MinQueryLength {
		s.Results = make([]domain.Trial, 0)
		s.Selected = 0
		// Anything still in flight answers a query the user has abandoned
		s.requestSeq++
		s.Loading = false
		return TriggerCleared, ""
	}
	return TriggerFire, s.Query
}

// StartRequest marks a request as in flight and returns its sequence number
func (s *SearchState) StartRequest() int {
	s.requestSeq++
	s.Loading = true
	s.Error = ""
	return s.requestSeq
}

// LatestRequest returns the sequence number of the latest issued request
func (s *SearchState) LatestRequest() int {
	return s.requestSeq
}

// Succeed applies a successful response. Responses for superseded requests
// are ignored and false is returned.
func (s *SearchState) Succeed(seq int, results []domain.Trial) bool {
	if seq != s.requestSeq {
		return false
	}
	if results == nil {
		results = make([]domain.Trial, 0)
	}
	s.Results = results
	s.Error = ""
	s.Loading = false
	s.Selected = 0
	return true
}

// Fail applies a failed response. Prior results are kept.
func (s *SearchState) Fail(seq int) bool {
	if seq != s.requestSeq {
		return false
	}
	s.Error = s.ErrorMessage
	s.Loading = false
	s.clampSelection()
	return true
}

// Visible returns the results that are rendered
func (s *SearchState) Visible() []domain.Trial {
	if s.MaxDisplay > 0 && len(s.Results) > s.MaxDisplay {
		return s.Results[:s.MaxDisplay]
	}
	return s.Results
}

// SelectNext moves the cursor down one entry
func (s *SearchState) SelectNext() {
	s.Selected++
	s.clampSelection()
}

// SelectPrev moves the cursor up one entry
func (s *SearchState) SelectPrev() {
	s.Selected--
	s.clampSelection()
}

// SelectedTrial returns the trial under the cursor
func (s *SearchState) SelectedTrial() (domain.Trial, bool) {
	visible := s.Visible()
	if s.Selected < 0 || s.Selected >= len(visible) {
		return domain.Trial{}, false
	}
	return visible[s.Selected], true
}

func (s *SearchState) clampSelection() {
	n := len(s.Visible())
	if s.Selected >= n {
		s.Selected = n - 1
	}
	if s.Selected < 0 {
		s.Selected = 0
	}
}
