package buildpipeline

// ChannelSink forwards events into a channel. Once Done is closed events
// are dropped instead of blocking the workers, so a UI that quit early
// does not stall the index.
type ChannelSink struct {
	Ch   chan<- Event
	Done <-chan struct{}
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	select {
	case s.Ch <- evt:
	case <-s.Done:
	}
}
