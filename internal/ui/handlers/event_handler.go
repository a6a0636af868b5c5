package handlers

import (
	"log"

	"trialsearch/internal/eventbus"
)

// EventLogger writes search lifecycle events to the diagnostics log
type EventLogger struct {
	logger      *log.Logger
	unsubscribe []func()
}

// NewEventLogger subscribes to search events on bus. A nil logger uses the
// standard logger.
func NewEventLogger(bus eventbus.EventBus, logger *log.Logger) *EventLogger {
	if logger == nil {
		logger = log.Default()
	}
	h := &EventLogger{logger: logger}
	for _, t := range []eventbus.EventType{
		eventbus.EventSearchRequested,
		eventbus.EventSearchCompleted,
		eventbus.EventSearchFailed,
		eventbus.EventSearchDiscarded,
		eventbus.EventSearchCleared,
		eventbus.EventConfigLoaded,
		eventbus.EventConfigSaved,
		eventbus.EventError,
	} {
		h.unsubscribe = append(h.unsubscribe, bus.Subscribe(t, h.HandleEvent))
	}
	return h
}

// HandleEvent logs a single domain event
func (h *EventLogger) HandleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.SearchRequestedEvent:
		h.logger.Printf("search #%d requested: %q", e.Seq, e.Query)

	case eventbus.SearchCompletedEvent:
		h.logger.Printf("search #%d completed: %q returned %d trials in %s", e.Seq, e.Query, e.Count, e.Duration)

	case eventbus.SearchFailedEvent:
		h.logger.Printf("search #%d failed: %q: %v", e.Seq, e.Query, e.Err)

	case eventbus.SearchDiscardedEvent:
		h.logger.Printf("search #%d discarded: %q was superseded", e.Seq, e.Query)

	case eventbus.SearchClearedEvent:
		h.logger.Printf("results cleared: query %q below minimum length", e.Query)

	case eventbus.ConfigLoadedEvent:
		h.logger.Printf("config loaded from %s (endpoint %s)", e.Path, e.Endpoint)

	case eventbus.ConfigSavedEvent:
		h.logger.Printf("config saved to %s", e.Path)

	case eventbus.ErrorEvent:
		h.logger.Printf("error: %s: %v", e.Message, e.Err)
	}
}

// Close removes all subscriptions
func (h *EventLogger) Close() {
	for _, unsubscribe := range h.unsubscribe {
		unsubscribe()
	}
	h.unsubscribe = nil
}
