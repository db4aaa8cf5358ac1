package pipeline

// ChannelSink forwards events into a channel without blocking. Events
// that do not fit are dropped; progress reporting never stalls the build.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	select {
	case s.Ch <- evt:
	default:
	}
}

// NullSink discards all events.
type NullSink struct{}

func (NullSink) OnEvent(Event) {}

func emit(sink Sink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
