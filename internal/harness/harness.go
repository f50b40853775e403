package harness

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eugene-eko2000/simple-payment-engine/internal/csvio"
	"github.com/eugene-eko2000/simple-payment-engine/internal/engine"
	"github.com/eugene-eko2000/simple-payment-engine/internal/store"
	"github.com/eugene-eko2000/simple-payment-engine/internal/tx"
)

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh store and engine for isolation.
//
// Execution flow:
// 1. Create fresh store and engine
// 2. Apply flow steps in order, validating expect clauses
// 3. Evaluate account assertions against final state
// 4. Check global ledger invariants
// 5. Render the final account report for golden comparison
func Run(scenario *Scenario) (*Result, error) {
	st := store.New()
	eng := engine.New(st)

	result := NewResult()

	for i, step := range scenario.Flow {
		t, err := buildTransaction(step)
		if err != nil {
			return nil, fmt.Errorf("flow step %d: %w", i, err)
		}

		execErr := eng.Execute(t)

		outcome := StepOutcome{
			Step:    i,
			Kind:    string(t.Kind),
			Outcome: OutcomeApplied,
		}
		if execErr != nil {
			outcome.Outcome = OutcomeRejected
			outcome.Code = string(engine.CodeOf(execErr))
		}
		result.AddOutcome(outcome)

		if step.Expect == nil {
			continue
		}
		if step.Expect.Outcome != outcome.Outcome {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected outcome %s, got %s",
				i, t.Kind, step.Expect.Outcome, outcome.Outcome))
			continue
		}
		if step.Expect.Code != "" && step.Expect.Code != outcome.Code {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected code %s, got %s",
				i, t.Kind, step.Expect.Code, outcome.Code))
		}
	}

	// Evaluate account assertions against the final state
	for _, errMsg := range EvaluateAccounts(st, scenario.Accounts) {
		result.AddError(errMsg)
	}

	// Ledger invariants hold after every flow, asserted or not
	for _, violation := range CheckInvariants(st) {
		result.AddError(violation)
	}

	// Render the final report
	var buf bytes.Buffer
	if err := csvio.WriteReport(&buf, st); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	result.Report = buf.String()

	return result, nil
}

// buildTransaction converts a flow step to an engine transaction.
//
// Amounts are normalized the same way the CSV reader normalizes them,
// so scenarios and stream input exercise identical engine inputs.
func buildTransaction(step FlowStep) (tx.Transaction, error) {
	kind, err := tx.ParseKind(step.Kind)
	if err != nil {
		return tx.Transaction{}, err
	}

	t := tx.Transaction{
		Kind:   kind,
		Client: tx.ClientID(step.Client),
		ID:     tx.ID(step.Tx),
	}

	if step.Amount != "" {
		amount, err := decimal.NewFromString(step.Amount)
		if err != nil {
			return tx.Transaction{}, fmt.Errorf("invalid amount %q: %w", step.Amount, err)
		}
		t.Amount = tx.NormalizeAmount(amount)
	}

	return t, nil
}
