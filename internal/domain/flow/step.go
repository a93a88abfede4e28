package flow

// Step is one of the four mutually exclusive stages of the booking wizard.
type Step string

const (
	StepCatalog      Step = "catalog"
	StepAvailability Step = "availability"
	StepCheckout     Step = "checkout"
	StepConfirmation Step = "confirmation"
)

func (s Step) String() string {
	return string(s)
}
