package classifier

// Intent is the coarse classification of a customer utterance.
type Intent string

const (
	IntentGreeting  Intent = "greeting"
	IntentOrder     Intent = "order"
	IntentQuestion  Intent = "question"
	IntentComplaint Intent = "complaint"
	IntentClosing   Intent = "closing"
	IntentUnknown   Intent = "unknown"
)

// Entities carries the structured values extracted from one utterance.
// Quantities align positionally with FoodItems only when the counts match.
type Entities struct {
	FoodItems  []string `json:"food_items"`
	Quantities []int    `json:"quantities"`
	Other      []string `json:"other"`
}

// Result is the normalized classifier output consumed by the dialogue
// engine.
type Result struct {
	Intent     Intent   `json:"intent"`
	Entities   Entities `json:"entities"`
	Confidence float64  `json:"confidence"`
}

// Default is the recoverable fallback used whenever the external
// classifier times out or returns a malformed payload.
func Default() Result {
	return Result{
		Intent: IntentUnknown,
		Entities: Entities{
			FoodItems:  []string{},
			Quantities: []int{},
			Other:      []string{},
		},
		Confidence: 0.0,
	}
}

// Exchange is one prior customer/agent turn given to the classifier as
// context. The window is bounded so long calls keep a finite prompt.
type Exchange struct {
	Customer string `json:"customer"`
	Agent    string `json:"agent"`
}

type request struct {
	Utterance string     `json:"utterance"`
	Context   []Exchange `json:"context"`
}
