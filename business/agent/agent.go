package agent

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/charcochicken/goVoiceOrder/business/convlog"
	"github.com/charcochicken/goVoiceOrder/business/dialogue"
	"github.com/charcochicken/goVoiceOrder/business/menu"
	"github.com/charcochicken/goVoiceOrder/business/orders"
	"github.com/charcochicken/goVoiceOrder/foundation/events"
	"github.com/charcochicken/goVoiceOrder/foundation/external/classifier"
	"github.com/charcochicken/goVoiceOrder/foundation/redis"
	"github.com/charcochicken/goVoiceOrder/foundation/state"
)

// Classifier is the slot extractor contract the agent depends on; tests
// substitute a stub.
type Classifier interface {
	Classify(ctx context.Context, utterance string, history []classifier.Exchange) (classifier.Result, error)
}

type Config struct {
	ConfidenceThreshold float64
	MaxClarifyRetries   int
	ContextWindow       int
	ClassifyTimeout     time.Duration
	IdleTimeout         time.Duration
	SweepInterval       time.Duration
	ComplimentaryItem   string
	ETAMinMinutes       int
	ETAMaxMinutes       int
}

type Settings struct {
	Config
	Logger     *zap.SugaredLogger
	Classifier Classifier
	Catalog    *menu.Catalog
	Repo       orders.Repo
	Log        *convlog.Log
	Redis      *redis.Redis      // optional
	Events     *events.Publisher // optional
}

// Agent drives one turn at a time through classify -> transition -> log.
// Turns within a session are strictly sequential; sessions are
// independent and processed in parallel.
type Agent struct {
	config     Config
	logger     *zap.SugaredLogger
	classifier Classifier
	machine    *dialogue.Machine
	registry   *Registry
	log        *convlog.Log
	redis      *redis.Redis
	events     *events.Publisher
	state      *state.State
}

func New(s Settings) *Agent {
	machine := dialogue.NewMachine(s.Catalog, s.Repo, orders.NewETAPolicy(s.ETAMinMinutes, s.ETAMaxMinutes), dialogue.Config{
		ConfidenceThreshold: s.ConfidenceThreshold,
		MaxClarifyRetries:   s.MaxClarifyRetries,
		ComplimentaryItem:   s.ComplimentaryItem,
	}, s.Logger)

	return &Agent{
		config:     s.Config,
		logger:     s.Logger,
		classifier: s.Classifier,
		machine:    machine,
		registry:   NewRegistry(s.Logger),
		log:        s.Log,
		redis:      s.Redis,
		events:     s.Events,
		state:      state.NewState(),
	}
}

// TurnReply is the outcome of one processed turn. SessionID is the
// effective id: when the caller sent none, it carries the allocated id
// the caller must present on the next turn.
type TurnReply struct {
	SessionID string
	Response  string
	EndCall   bool
}

// ProcessTurn handles one utterance for a session and returns the reply
// text plus whether the call should end. No classifier or sink failure
// is fatal; every degraded path produces a customer-facing reply.
func (a *Agent) ProcessTurn(ctx context.Context, sessionID string, utterance string) (TurnReply, error) {
	session := a.registry.Acquire(sessionID)

	// Snapshot under the lock, then release it for the classifier
	// round-trip so a blocked classifier never pins the session.
	session.Lock()
	version := session.Version
	history := session.History(a.config.ContextWindow)
	session.Unlock()

	classifyCtx, cancel := context.WithTimeout(ctx, a.config.ClassifyTimeout)
	result, classifyErr := a.classifier.Classify(classifyCtx, utterance, history)
	cancel()

	if classifyErr != nil {
		if a.state.Get(state.Classifier) {
			a.logger.Errorw("agent: classify", "session", session.ID, "ERROR", classifyErr)
			a.state.Set(state.Classifier, false)
		}
		result = classifier.Default()
	} else if !a.state.Get(state.Classifier) {
		a.logger.Infow("agent: classifier recovered")
		a.state.Set(state.Classifier, true)
	}

	session.Lock()
	defer session.Unlock()

	// Re-validate after re-acquiring: a turn racing a concurrent finalize
	// lands on a terminal session, and the machine replays the stored
	// confirmation instead of double-applying.
	if session.Version != version {
		a.logger.Infow("agent: session advanced during classify", "session", session.ID)
	}

	outcome := a.machine.Advance(ctx, session, dialogue.Input{
		Utterance:   utterance,
		Result:      result,
		Unavailable: classifyErr != nil,
	})

	entry := convlog.Entry{
		Timestamp:   time.Now(),
		SessionID:   session.ID,
		Utterance:   utterance,
		Intent:      result.Intent,
		Confidence:  result.Confidence,
		Entities:    result.Entities,
		Response:    outcome.Response,
		StateBefore: outcome.StateBefore.String(),
		StateAfter:  outcome.StateAfter.String(),
	}
	a.log.Append(entry)
	a.publish(ctx, entry, outcome.Order)

	return TurnReply{
		SessionID: session.ID,
		Response:  outcome.Response,
		EndCall:   outcome.EndCall,
	}, nil
}

// EndCall closes a session explicitly (caller hung up), discarding any
// unconfirmed draft.
func (a *Agent) EndCall(sessionID string) {
	session, exists := a.registry.Get(sessionID)
	if !exists {
		return
	}

	session.Lock()
	if !session.State.Terminal() {
		session.State = dialogue.StateClosed
		session.Draft = nil
	}
	session.Unlock()

	a.registry.Remove(sessionID)
	a.logger.Infow("agent: call ended", "session", sessionID)
}

// StartSweeper runs the idle-session sweeper until ctx ends.
func (a *Agent) StartSweeper(ctx context.Context) {
	interval := a.config.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	a.registry.StartSweeper(ctx, interval, a.config.IdleTimeout)
}

func (a *Agent) ActiveSessions() int {
	return a.registry.Count()
}

// publish pushes the entry (and order, when one was finalized) to the
// optional dashboard sinks. Failures flip the sink's availability flag
// so a dead sink is logged once, never retried on every turn.
func (a *Agent) publish(ctx context.Context, entry convlog.Entry, order *orders.Order) {
	if a.redis != nil && a.state.Get(state.RedisSink) {
		if err := a.redis.PublishConversation(ctx, entry); err != nil {
			a.logger.Errorw("agent: redis conversation publish", "ERROR", err)
			a.state.Set(state.RedisSink, false)
		}
	}

	if order == nil {
		return
	}

	if a.redis != nil && a.state.Get(state.RedisSink) {
		if err := a.redis.PublishOrder(ctx, order); err != nil {
			a.logger.Errorw("agent: redis order publish", "ERROR", err)
			a.state.Set(state.RedisSink, false)
		}
	}

	if a.events != nil && a.state.Get(state.EventsSink) {
		if err := a.events.PublishOrder(order); err != nil {
			a.logger.Errorw("agent: events order publish", "ERROR", err)
			a.state.Set(state.EventsSink, false)
		}
	}
}
