package app

import "errors"

var (
	ErrNotOnboarded       = errors.New("onboarding is not complete")
	ErrNoSelection        = errors.New("no recipes selected for the meal plan")
	ErrNoSupermarket      = errors.New("no supermarket selected")
	ErrNoGroceryList      = errors.New("no grocery list has been created")
	ErrWrongStage         = errors.New("action not available at this stage")
	ErrPublishingDisabled = errors.New("recipe publishing is not configured")
	ErrRecipeNotFound     = errors.New("recipe not found in favorites")
	ErrFlowUnavailable    = errors.New("AI flows are not configured")
)

// Messages shown when an AI flow fails.
const (
	MsgGroceryListFailed = "Sorry, we couldn't create your plan. The ingredients might be too complex. Please try again with different recipes."
	MsgRecipeFailed      = "Sorry, we couldn't generate a recipe at this time. Please try again."
	MsgAnalysisFailed    = "We couldn't analyze your meal plan at this time. Please try again."
	MsgSummaryFailed     = "Sorry, we couldn't summarize this recipe. Please try again."
	MsgAlternativeFailed = "Sorry, we couldn't find alternatives right now. Please try again."
	MsgImportFailed      = "Sorry, we couldn't import a recipe from that page. Please try another link."
)

// FlowError is a failed AI flow. Error returns the message meant for the
// user; the cause stays reachable through errors.Is and errors.As.
type FlowError struct {
	Message string
	Err     error
}

func (e *FlowError) Error() string { return e.Message }

func (e *FlowError) Unwrap() error { return e.Err }

// UserMessage returns the text to show for err.
func UserMessage(err error) string {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}
