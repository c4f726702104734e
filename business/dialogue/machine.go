package dialogue

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/charcochicken/goVoiceOrder/business/menu"
	"github.com/charcochicken/goVoiceOrder/business/orders"
	"github.com/charcochicken/goVoiceOrder/foundation/external/classifier"
)

type Config struct {
	// ConfidenceThreshold below which a classified turn is treated as
	// not understood.
	ConfidenceThreshold float64

	// MaxClarifyRetries bounds consecutive clarification questions
	// before the call degrades to human handoff.
	MaxClarifyRetries int

	// ComplimentaryItem seeds complaint-compensation drafts.
	ComplimentaryItem string
}

// Machine applies one turn to a session: next state, reply, and order
// finalization when every required slot is filled. Callers hold the
// session lock for the whole call.
type Machine struct {
	catalog *menu.Catalog
	repo    orders.Repo
	eta     *orders.ETAPolicy
	config  Config
	logger  *zap.SugaredLogger
}

func NewMachine(catalog *menu.Catalog, repo orders.Repo, eta *orders.ETAPolicy, config Config, logger *zap.SugaredLogger) *Machine {
	return &Machine{
		catalog: catalog,
		repo:    repo,
		eta:     eta,
		config:  config,
		logger:  logger,
	}
}

// Input is one classified turn.
type Input struct {
	Utterance string
	Result    classifier.Result

	// Unavailable marks a classifier timeout or malformed response; the
	// turn is handled as a recoverable not-understood condition.
	Unavailable bool
}

type Outcome struct {
	Response string
	EndCall  bool

	// Order is set only on the transition that finalized it.
	Order *orders.Order

	StateBefore State
	StateAfter  State
}

// Advance applies the turn, appends it to the session history and bumps
// the session version.
func (m *Machine) Advance(ctx context.Context, s *Session, in Input) Outcome {
	stateBefore := s.State

	out := m.transition(ctx, s, in)
	out.StateBefore = stateBefore
	out.StateAfter = s.State

	s.Turns = append(s.Turns, Turn{
		Timestamp:  time.Now(),
		Utterance:  in.Utterance,
		Intent:     in.Result.Intent,
		Entities:   in.Result.Entities,
		Confidence: in.Result.Confidence,
		Response:   out.Response,
	})
	s.Version++
	s.LastActivity = time.Now()

	return out
}

func (m *Machine) transition(ctx context.Context, s *Session, in Input) Outcome {
	// Terminal sessions replay their outcome; the registry replaces them
	// with a fresh session on the next genuine turn.
	if s.State == StateClosed {
		if s.Confirmed != nil {
			return Outcome{Response: respConfirmed(s.Confirmed), EndCall: true}
		}
		return Outcome{Response: respGoodbye, EndCall: true}
	}
	if s.State == StateHumanHandoff {
		return Outcome{Response: respHandoff, EndCall: true}
	}

	res := in.Result
	lowSignal := in.Unavailable || res.Intent == classifier.IntentUnknown || res.Confidence < m.config.ConfidenceThreshold

	if lowSignal {
		if out, ok := m.salvage(ctx, s, in); ok {
			s.ClarifyRetries = 0
			return out
		}

		s.ClarifyRetries++
		if s.ClarifyRetries > m.config.MaxClarifyRetries {
			s.State = StateHumanHandoff
			return Outcome{Response: respHandoff, EndCall: true}
		}
		return Outcome{Response: respClarify}
	}
	s.ClarifyRetries = 0

	switch res.Intent {
	case classifier.IntentQuestion:
		// Transparent branch: answer without touching the draft or state.
		return Outcome{Response: m.answerQuestion(in.Utterance, res.Entities)}

	case classifier.IntentComplaint:
		return m.handleComplaint(ctx, s, in)

	case classifier.IntentClosing:
		return m.handleClosing(s)

	case classifier.IntentGreeting:
		if s.State == StateGreeting {
			s.State = StateCollectingItems
			return Outcome{Response: respWelcome}
		}
		if len(res.Entities.FoodItems) > 0 && collectionState(s.State) {
			return m.collect(ctx, s, in)
		}
		// Mid-conversation greeting is idle chatter, never a reset.
		return Outcome{Response: respChatter}

	case classifier.IntentOrder:
		return m.collect(ctx, s, in)
	}

	return Outcome{Response: respClarify}
}

// salvage interprets a low-signal turn from the current state before
// burning a clarification retry: a bare name while collecting the name,
// bare numbers while clarifying quantities, a yes/no while confirming,
// an order id while handling a complaint, food mentions mid-order.
func (m *Machine) salvage(ctx context.Context, s *Session, in Input) (Outcome, bool) {
	switch s.State {
	case StateCollectingName:
		if name := nameCandidate(in); name != "" {
			return m.collect(ctx, s, in), true
		}

	case StateCollectingQuantities:
		if len(in.Result.Entities.Quantities) > 0 {
			return m.collect(ctx, s, in), true
		}

	case StateConfirming:
		if isAffirmative(in.Utterance) {
			return m.finalize(ctx, s), true
		}
		if isNegative(in.Utterance) {
			s.State = StateCollectingItems
			return Outcome{Response: respCorrect}, true
		}

	case StateHandlingComplaint:
		if extractOrderID(in) != "" {
			return m.handleComplaint(ctx, s, in), true
		}
	}

	if len(in.Result.Entities.FoodItems) > 0 && (s.State == StateGreeting || collectionState(s.State)) {
		return m.collect(ctx, s, in), true
	}

	return Outcome{}, false
}

// collect merges the turn's entities into the draft and advances to the
// next unfilled slot.
func (m *Machine) collect(ctx context.Context, s *Session, in Input) Outcome {
	if s.Draft == nil {
		s.Draft = NewDraft()
	}
	ents := in.Result.Entities

	if s.State == StateConfirming {
		if len(ents.FoodItems) == 0 {
			if isAffirmative(in.Utterance) {
				return m.finalize(ctx, s)
			}
			if isNegative(in.Utterance) {
				s.State = StateCollectingItems
				return Outcome{Response: respCorrect}
			}
			return Outcome{Response: respConfirm(s.Draft, m.draftTotal(s.Draft))}
		}
		// Corrective follow-up: merge it and re-derive the next slot.
		s.State = StateCollectingItems
	}

	// A turn that answers the pending quantity question is consumed
	// here; anything else (a new item mention, an unmatched answer)
	// falls through to the regular merge so no mention is dropped.
	if s.State == StateCollectingQuantities && len(s.Draft.PendingQuantities()) > 0 {
		if s.Draft.ApplyQuantities(m.catalog, ents.FoodItems, ents.Quantities) {
			return m.advanceSlot(s)
		}
	}

	if s.State == StateCollectingName {
		if name := nameCandidate(in); name != "" {
			s.Draft.SetName(name)
		}
	}

	mergeResult := s.Draft.Merge(m.catalog, ents.FoodItems, ents.Quantities)
	if len(mergeResult.Unresolved) > 0 {
		if s.State == StateGreeting {
			s.State = StateCollectingItems
		}
		return Outcome{Response: respUnknownItems(mergeResult.Unresolved)}
	}

	return m.advanceSlot(s)
}

// advanceSlot moves to the next unfilled required slot, asking exactly
// one question, or to confirmation when the draft is complete.
func (m *Machine) advanceSlot(s *Session) Outcome {
	draft := s.Draft

	switch {
	case draft == nil || draft.Empty():
		s.State = StateCollectingItems
		return Outcome{Response: respAskItems}

	case len(draft.PendingQuantities()) > 0:
		s.State = StateCollectingQuantities
		return Outcome{Response: respAskQuantities(draft.PendingQuantities())}

	case draft.CustomerName() == "":
		s.State = StateCollectingName
		return Outcome{Response: respAskName}

	default:
		s.State = StateConfirming
		return Outcome{Response: respConfirm(draft, m.draftTotal(draft))}
	}
}

// finalize freezes the draft into a confirmed order and appends it to
// the repository. Retried confirmations replay the stored order instead
// of creating a second one.
func (m *Machine) finalize(ctx context.Context, s *Session) Outcome {
	if s.Confirmed != nil {
		s.State = StateClosed
		return Outcome{Response: respConfirmed(s.Confirmed), EndCall: true}
	}

	if s.Draft == nil || !s.Draft.Complete() {
		return m.advanceSlot(s)
	}

	order, err := orders.Finalize(s.Draft.CustomerName(), s.Draft.LineItems(), m.catalog, m.eta, s.Draft.Compensation())
	if err != nil {
		// Internal-consistency fault: fail closed, keep the call alive.
		m.logger.Errorw("dialogue: finalize", "session", s.ID, "ERROR", err)
		s.State = StateCollectingItems
		return Outcome{Response: respInternal}
	}

	if err := m.repo.Append(ctx, order); err != nil {
		if errors.Is(err, orders.ErrDuplicateID) {
			if stored, getErr := m.repo.Get(ctx, order.OrderID); getErr == nil {
				order = stored
			}
		} else {
			m.logger.Errorw("dialogue: append order", "session", s.ID, "order", order.OrderID, "ERROR", err)
			s.State = StateCollectingItems
			return Outcome{Response: respInternal}
		}
	}

	s.Confirmed = order
	s.Draft = nil
	s.State = StateClosed

	return Outcome{Response: respConfirmed(order), EndCall: true, Order: order}
}

// handleComplaint runs the complaint branch: locate the referenced
// order, re-prompting once for the id. A resolved id opens a
// compensation draft and re-enters item collection; an id that never
// resolves gets an apology without the complimentary item.
func (m *Machine) handleComplaint(ctx context.Context, s *Session, in Input) Outcome {
	s.State = StateHandlingComplaint

	orderID := extractOrderID(in)
	if orderID == "" {
		if s.ComplaintAskedID {
			return m.closeComplaint(s)
		}
		s.ComplaintAskedID = true
		return Outcome{Response: respAskID}
	}

	if _, err := m.repo.Get(ctx, orderID); err != nil {
		if !s.ComplaintAskedID {
			s.ComplaintAskedID = true
			return Outcome{Response: respIDNotFound(orderID)}
		}
		return m.closeComplaint(s)
	}

	return m.startCompensation(s)
}

// closeComplaint ends an unverified complaint: the re-prompt was spent
// and no stored order was ever referenced, so no complimentary item is
// granted. The conversation returns to regular collection.
func (m *Machine) closeComplaint(s *Session) Outcome {
	s.State = StateCollectingItems
	return Outcome{Response: respCompensation("")}
}

func (m *Machine) startCompensation(s *Session) Outcome {
	if s.Draft == nil {
		s.Draft = NewDraft()
	}
	s.Draft.SetCompensation()

	complimentary := ""
	if m.config.ComplimentaryItem != "" {
		if item, err := m.catalog.Resolve(m.config.ComplimentaryItem); err == nil {
			s.Draft.AddItem(item.Name, 1)
			complimentary = item.Name
		}
	}

	s.State = StateCollectingItems
	return Outcome{Response: respCompensation(complimentary)}
}

func (m *Machine) handleClosing(s *Session) Outcome {
	// Hanging up mid-order abandons the draft; confirmation requires an
	// explicit affirmative while confirming.
	s.State = StateClosed
	s.Draft = nil
	return Outcome{Response: respGoodbye, EndCall: true}
}

// answerQuestion serves menu/FAQ questions from the catalog.
func (m *Machine) answerQuestion(utterance string, ents classifier.Entities) string {
	for _, raw := range ents.FoodItems {
		if item, err := m.catalog.Resolve(raw); err == nil {
			return respItemInfo(item)
		}
	}

	norm := menu.Normalize(utterance)
	for _, keyword := range []string{"منيو", "قائمه", "شو عندكم", "الاسعار", "menu"} {
		if strings.Contains(norm, keyword) {
			return respMenu(m.catalog)
		}
	}

	return respGeneral
}

func (m *Machine) draftTotal(draft *Draft) menu.Price {
	var total menu.Price
	for name, quantity := range draft.LineItems() {
		if item, err := m.catalog.Resolve(name); err == nil {
			total += item.Price * menu.Price(quantity)
		}
	}
	return total
}

// =====================================================================================================================

var affirmativeWords = []string{"نعم", "اي", "ايه", "ايوه", "تمام", "اكيد", "موافق", "صح", "ماشي", "yes", "ok", "اوك"}

var negativeWords = []string{"لا", "لأ", "مو", "غلط", "مش", "الغاء", "لغي", "no"}

func isAffirmative(utterance string) bool {
	return containsToken(utterance, affirmativeWords)
}

func isNegative(utterance string) bool {
	return containsToken(utterance, negativeWords)
}

func containsToken(utterance string, words []string) bool {
	for _, token := range strings.Fields(menu.Normalize(utterance)) {
		for _, word := range words {
			if token == word {
				return true
			}
		}
	}
	return false
}

var orderIDPattern = regexp.MustCompile(`^[A-Fa-f0-9]{8}$`)

// extractOrderID looks for an 8-character order id in the extracted
// entities first, then in the raw utterance tokens.
func extractOrderID(in Input) string {
	candidates := append([]string{}, in.Result.Entities.Other...)
	candidates = append(candidates, strings.Fields(in.Utterance)...)

	for _, candidate := range candidates {
		token := strings.TrimSpace(candidate)
		if orderIDPattern.MatchString(token) {
			return strings.ToUpper(token)
		}
	}
	return ""
}

// nameCandidate extracts a customer name from a name-collection turn:
// the first non-empty extracted entity, falling back to a short plain
// utterance.
func nameCandidate(in Input) string {
	for _, other := range in.Result.Entities.Other {
		if name := strings.TrimSpace(other); name != "" {
			return name
		}
	}

	utterance := strings.TrimSpace(in.Utterance)
	if utterance == "" || strings.ContainsAny(utterance, "?؟0123456789") {
		return ""
	}
	if fields := strings.Fields(utterance); len(fields) <= 3 {
		return utterance
	}
	return ""
}
