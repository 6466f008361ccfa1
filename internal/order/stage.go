// Package order implements the turn-driven order intake state machine.
package order

// Stage represents a waiting point in the order intake sequence.
type Stage string

const (
	// StageIdle indicates that no order flow is in progress.
	StageIdle Stage = "idle"
	// StageAskProduct indicates that the session is waiting for a product name.
	StageAskProduct Stage = "ask_product"
	// StageAskName indicates that the session is waiting for the customer name.
	StageAskName Stage = "ask_name"
	// StageAskPhone indicates that the session is waiting for a contact phone number.
	StageAskPhone Stage = "ask_phone"
	// StageAskEmail indicates that the session is waiting for a contact email address.
	StageAskEmail Stage = "ask_email"
	// StageAskConfirmation indicates that the session is waiting for the review request.
	StageAskConfirmation Stage = "ask_confirmation"
	// StageConfirm indicates that the session is waiting for the final yes/no answer.
	StageConfirm Stage = "confirm"
)

// validTransitions contains the permitted forward transitions between stages.
// The only backward move is to StageIdle, which cancellation and successful
// confirmation use.
var validTransitions = map[Stage][]Stage{
	StageIdle:            {StageAskProduct},
	StageAskProduct:      {StageAskName},
	StageAskName:         {StageAskPhone},
	StageAskPhone:        {StageAskEmail},
	StageAskEmail:        {StageAskConfirmation},
	StageAskConfirmation: {StageConfirm},
	StageConfirm:         {},
}

// IsTransitionAllowed reports whether moving from one stage to another is valid.
func IsTransitionAllowed(from, to Stage) bool {
	if to == StageIdle {
		return true
	}

	for _, stage := range validTransitions[from] {
		if stage == to {
			return true
		}
	}

	return false
}

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe stage transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}
