package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// ErrUnavailable reports a classifier timeout or a malformed response.
// Callers must treat it as recoverable and fall back to Default().
var ErrUnavailable = errors.New("classifier unavailable")

const defaultTimeout = 5 * time.Second

// Service calls the external intent/entity classifier over HTTP.
type Service struct {
	endpoint      string
	apiKey        string
	timeout       time.Duration
	contextWindow int
}

func New(endpoint string, apiKey string, timeout time.Duration, contextWindow int) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Service{
		endpoint:      endpoint,
		apiKey:        apiKey,
		timeout:       timeout,
		contextWindow: contextWindow,
	}
}

// Classify sends the utterance plus a bounded window of prior exchanges
// and returns the normalized intent result. Any transport or shape
// failure returns Default() and ErrUnavailable.
func (s *Service) Classify(ctx context.Context, utterance string, history []Exchange) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.contextWindow > 0 && len(history) > s.contextWindow {
		history = history[len(history)-s.contextWindow:]
	}

	payload, err := json.Marshal(request{
		Utterance: utterance,
		Context:   history,
	})
	if err != nil {
		return Default(), errors.Join(ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Default(), errors.Join(ErrUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Add("api-key", s.apiKey)
	}

	client := http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		return Default(), errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Default(), errors.Join(ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return Default(), errors.Join(ErrUnavailable, errors.New(string(respBytes)))
	}

	var r Result
	if err := json.Unmarshal(respBytes, &r); err != nil {
		return Default(), errors.Join(ErrUnavailable, err)
	}

	return validate(r)
}

// validate enforces the fixed result shape at the boundary so undefined
// fields never propagate into the dialogue engine.
func validate(r Result) (Result, error) {
	switch r.Intent {
	case IntentGreeting, IntentOrder, IntentQuestion, IntentComplaint, IntentClosing, IntentUnknown:

	case "goodbye":
		// The upstream model was prompted with "goodbye"; the dialogue
		// engine names the same intent "closing".
		r.Intent = IntentClosing

	default:
		return Default(), ErrUnavailable
	}

	if r.Confidence < 0 || r.Confidence > 1 {
		return Default(), ErrUnavailable
	}

	if r.Entities.FoodItems == nil {
		r.Entities.FoodItems = []string{}
	}
	if r.Entities.Quantities == nil {
		r.Entities.Quantities = []int{}
	}
	if r.Entities.Other == nil {
		r.Entities.Other = []string{}
	}

	return r, nil
}
