package state

import "sync"

// Service identifies an external collaborator whose availability the agent
// tracks, so a dead sink is logged once and skipped instead of failing
// every turn.
type Service int

const (
	Classifier Service = iota
	RedisSink
	EventsSink
)

type State struct {
	sync.RWMutex

	Classifier bool
	RedisSink  bool
	EventsSink bool
}

func NewState() *State {
	return &State{
		Classifier: true,
		RedisSink:  true,
		EventsSink: true,
	}
}

func (s *State) Get(svc Service) bool {
	s.RLock()
	defer s.RUnlock()
	{
		switch svc {
		case Classifier:
			return s.Classifier

		case RedisSink:
			return s.RedisSink

		case EventsSink:
			return s.EventsSink
		}
	}
	return false
}

func (s *State) Set(svc Service, state bool) {
	s.Lock()
	defer s.Unlock()
	{
		switch svc {
		case Classifier:
			s.Classifier = state

		case RedisSink:
			s.RedisSink = state

		case EventsSink:
			s.EventsSink = state
		}
	}
}
