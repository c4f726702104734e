package pubsub

type Subscriber struct {
	payload chan any
}

func NewSubscriber(channelCapacity int) *Subscriber {
	if channelCapacity > 0 {
		return &Subscriber{
			payload: make(chan any, channelCapacity),
		}
	}
	return &Subscriber{
		payload: make(chan any, 1),
	}
}

// TrySignal offers data without blocking. It reports false when the
// subscriber's buffer is full.
func (s *Subscriber) TrySignal(data any) bool {
	select {
	case s.payload <- data:
		return true
	default:
		return false
	}
}

func (s *Subscriber) GetChannel() <-chan any {
	return s.payload
}

func (s *Subscriber) CloseChannel() {
	close(s.payload)
}
