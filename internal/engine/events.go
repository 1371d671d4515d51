package engine

// Kind identifies the type of an Event.
type Kind int

const (
	// Started opens an invocation; Total holds the number of files to process.
	Started Kind = iota
	// FileDone reports one processed file, successful or not.
	FileDone
	// Message carries informational text, such as a skipped directory.
	Message
	// Finished closes an invocation that ran to the end or was cancelled.
	Finished
	// Failed closes an invocation that could not complete.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Started:
		return "started"
	case FileDone:
		return "file-done"
	case Message:
		return "message"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is a single progress notification from one invocation.
// Which fields are set depends on Kind.
type Event struct {
	Kind  Kind
	RunID string
	Root  string
	Mode  Mode

	// Path, Index (1-based) and Outcome are set for FileDone.
	Path    string
	Index   int
	Total   int
	Outcome Outcome

	// Err is set for a failed FileDone, for Failed, and for a Message about an error.
	Err error

	// Text is set for Message.
	Text string

	// Summary is set for Finished, and for Failed once files were attempted.
	Summary *Summary
}

// Terminal reports whether e is the last event of its invocation.
func (e Event) Terminal() bool {
	return e.Kind == Finished || e.Kind == Failed
}

// Sink receives the events of an invocation synchronously and in order.
// The engine never calls Emit concurrently for the same invocation.
type Sink interface {
	Emit(event Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Emit calls f(event).
func (f SinkFunc) Emit(event Event) {
	f(event)
}

// MultiSink forwards every event to each sink in order.
type MultiSink []Sink

// Emit forwards event to all sinks.
func (m MultiSink) Emit(event Event) {
	for _, sink := range m {
		sink.Emit(event)
	}
}

// Discard is a Sink that drops every event.
//
//nolint:gochecknoglobals
var Discard Sink = SinkFunc(func(Event) {})
