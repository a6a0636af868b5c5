package ui

import (
	"time"

	"trialsearch/internal/domain"
)

// debounceMsg is delivered when a query's quiescence timer expires
type debounceMsg struct {
	tag int
}

// searchResultMsg contains the outcome of a search request
type searchResultMsg struct {
	seq      int
	query    string
	results  []domain.Trial
	err      error
	duration time.Duration
}

// backendInfoMsg contains the backend version and index statistics
type backendInfoMsg struct {
	version string
	info    domain.IndexInfo
	err     error
}

// trialPagerMsg contains the result of showing a trial in the pager
type trialPagerMsg struct {
	nctID string
	err   error
}
