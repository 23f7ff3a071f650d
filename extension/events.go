// events.go defines the event types for extension notifications.
//
// Events are fire-and-forget notifications sent after an operation
// completes. Handlers observe; they cannot block or veto.

package extension

// EventType identifies the kind of event.
type EventType string

const (
	EventQueueIngest EventType = "queue:ingest"
	EventPathCheck   EventType = "path:check"
	EventSeed        EventType = "catalog:seed"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	EventSource() string
}

// QueueIngestEvent is fired after a batch reaches the store, whether or
// not the insert succeeded.
type QueueIngestEvent struct {
	Source    string
	Author    string
	Submitted int
	Success   int
	Failure   int
}

func (e QueueIngestEvent) EventType() EventType { return EventQueueIngest }
func (e QueueIngestEvent) EventSource() string  { return e.Source }

// PathCheckEvent is fired after a data path is checked.
type PathCheckEvent struct {
	Source     string
	Path       string
	Normalized string
	Valid      bool
	Exists     bool
}

func (e PathCheckEvent) EventType() EventType { return EventPathCheck }
func (e PathCheckEvent) EventSource() string  { return e.Source }

// SeedEvent is fired after reference data is loaded.
type SeedEvent struct {
	Source string
	Counts map[string]int
}

func (e SeedEvent) EventType() EventType { return EventSeed }
func (e SeedEvent) EventSource() string  { return e.Source }

// EventHandler is implemented by extensions that want to receive events.
type EventHandler interface {
	HandleEvent(ctx Context, e Event) error
}
