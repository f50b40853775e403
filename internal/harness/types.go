package harness

// StepOutcome records what the engine did with one flow step.
type StepOutcome struct {
	// Step is the zero-based index in the scenario flow.
	Step int `json:"step"`

	// Kind is the transaction kind applied.
	Kind string `json:"kind"`

	// Outcome is "applied" or "rejected".
	Outcome string `json:"outcome"`

	// Code is the rejection code. Empty when the step applied.
	Code string `json:"code,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if all expect clauses and account assertions match.
	Pass bool `json:"pass"`

	// Outcomes records each flow step's outcome in order.
	Outcomes []StepOutcome `json:"outcomes"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Report is the final account report as CSV.
	// Used for golden file comparison.
	Report string `json:"report,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []StepOutcome{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddOutcome records a flow step outcome.
func (r *Result) AddOutcome(o StepOutcome) {
	r.Outcomes = append(r.Outcomes, o)
}
