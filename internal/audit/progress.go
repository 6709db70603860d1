package audit

import "sync"

// ProgressSink receives advisory progress notifications while an audit runs.
// Implementations must not block.
type ProgressSink interface {
	Report(percent int, message string, details map[string]any)
}

type discardSink struct{}

func (discardSink) Report(int, string, map[string]any) {}

// Event is a single progress notification.
type Event struct {
	Percent int            `json:"percent"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ChannelSink forwards progress events into a buffered channel. Events that
// do not fit in the buffer are dropped.
type ChannelSink struct {
	mu     sync.Mutex
	events chan Event
	closed bool
}

// NewChannelSink returns a sink whose channel holds up to buffer events.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan Event, buffer)}
}

// Report implements ProgressSink.
func (s *ChannelSink) Report(percent int, message string, details map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.events <- Event{Percent: percent, Message: message, Details: details}:
	default:
	}
}

// Events returns the receive side of the sink.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// Close closes the event channel. Reports after Close are ignored.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.events)
	}
}
