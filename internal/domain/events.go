package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchRequested EventType = "SearchRequested"
	EventSearchCompleted EventType = "SearchCompleted"
	EventSearchFailed    EventType = "SearchFailed"
	EventSearchDiscarded EventType = "SearchDiscarded"
	EventSearchCleared   EventType = "SearchCleared"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
	EventError           EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchRequestedEvent is emitted when a debounced query is sent to the endpoint
type SearchRequestedEvent struct {
	Seq   int
	Query string
}

func (e SearchRequestedEvent) Type() EventType { return EventSearchRequested }

// SearchCompletedEvent is emitted when the latest request returns results
type SearchCompletedEvent struct {
	Seq      int
	Query    string
	Count    int
	Duration time.Duration
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the latest request fails
type SearchFailedEvent struct {
	Seq   int
	Query string
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// SearchDiscardedEvent is emitted when a response arrives for a superseded request
type SearchDiscardedEvent struct {
	Seq   int
	Query string
}

func (e SearchDiscardedEvent) Type() EventType { return EventSearchDiscarded }

// SearchClearedEvent is emitted when the query drops below the minimum length
type SearchClearedEvent struct {
	Query string
}

func (e SearchClearedEvent) Type() EventType { return EventSearchCleared }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path     string
	Endpoint string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is written to disk
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
