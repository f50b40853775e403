package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boolPtr returns a pointer to b for optional assertion fields.
func boolPtr(b bool) *bool {
	return &b
}

// expectApplied is shorthand for an applied expect clause.
func expectApplied() *ExpectClause {
	return &ExpectClause{Outcome: OutcomeApplied}
}

// expectRejected is shorthand for a rejected expect clause with a code.
func expectRejected(code string) *ExpectClause {
	return &ExpectClause{Outcome: OutcomeRejected, Code: code}
}

// TestRun_BasicFlow tests deposits and a withdrawal across two clients.
func TestRun_BasicFlow(t *testing.T) {
	scenario := &Scenario{
		Name:        "basic_flow",
		Description: "Deposits and a withdrawal across two clients",
		Flow: []FlowStep{
			{Kind: "deposit", Client: 1, Tx: 1, Amount: "1.0", Expect: expectApplied()},
			{Kind: "deposit", Client: 2, Tx: 2, Amount: "2.0", Expect: expectApplied()},
			{Kind: "deposit", Client: 1, Tx: 3, Amount: "2.0", Expect: expectApplied()},
			{Kind: "withdrawal", Client: 1, Tx: 4, Amount: "1.5", Expect: expectApplied()},
			{Kind: "withdrawal", Client: 2, Tx: 5, Amount: "3.0", Expect: expectRejected("INSUFFICIENT_FUNDS")},
		},
		Accounts: []AccountExpect{
			{Client: 1, Available: "1.5", Held: "0", Total: "1.5", Locked: boolPtr(false)},
			{Client: 2, Available: "2", Held: "0", Total: "2", Locked: boolPtr(false)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Outcomes, 5)
	assert.Equal(t, OutcomeRejected, result.Outcomes[4].Outcome)
	assert.Equal(t, "INSUFFICIENT_FUNDS", result.Outcomes[4].Code)
}

// TestRun_DisputeLifecycle tests dispute, resolve, re-dispute and chargeback.
func TestRun_DisputeLifecycle(t *testing.T) {
	scenario := &Scenario{
		Name:        "dispute_lifecycle",
		Description: "A deposit is disputed, resolved, re-disputed and charged back",
		Flow: []FlowStep{
			{Kind: "deposit", Client: 1, Tx: 1, Amount: "5.0", Expect: expectApplied()},
			{Kind: "dispute", Client: 1, Tx: 1, Expect: expectApplied()},
			{Kind: "resolve", Client: 1, Tx: 1, Expect: expectApplied()},
			{Kind: "dispute", Client: 1, Tx: 1, Expect: expectApplied()},
			{Kind: "chargeback", Client: 1, Tx: 1, Expect: expectApplied()},
			{Kind: "deposit", Client: 1, Tx: 2, Amount: "1.0", Expect: expectRejected("ACCOUNT_LOCKED")},
		},
		Accounts: []AccountExpect{
			{Client: 1, Available: "0", Held: "0", Total: "0", Locked: boolPtr(true)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

// TestRun_OutcomeMismatch tests that a wrong outcome fails the scenario.
func TestRun_OutcomeMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "outcome_mismatch",
		Description: "Expects rejection of a valid deposit",
		Flow: []FlowStep{
			{Kind: "deposit", Client: 1, Tx: 1, Amount: "1.0", Expect: expectRejected("")},
		},
		Accounts: []AccountExpect{
			{Client: 1, Available: "1"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected outcome rejected, got applied")
}

// TestRun_CodeMismatch tests that a wrong rejection code fails the scenario.
func TestRun_CodeMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "code_mismatch",
		Description: "Expects the wrong rejection code",
		Flow: []FlowStep{
			{Kind: "withdrawal", Client: 1, Tx: 1, Amount: "5.0", Expect: expectRejected("ACCOUNT_LOCKED")},
		},
		Accounts: []AccountExpect{
			{Client: 1, Available: "0"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected code ACCOUNT_LOCKED, got INSUFFICIENT_FUNDS")
}

// TestRun_RejectedWithoutCode tests that an expected rejection without a
// code accepts any rejection code.
func TestRun_RejectedWithoutCode(t *testing.T) {
	scenario := &Scenario{
		Name:        "rejected_any_code",
		Description: "Rejection expected, code left open",
		Flow: []FlowStep{
			{Kind: "withdrawal", Client: 1, Tx: 1, Amount: "5.0", Expect: expectRejected("")},
		},
		Accounts: []AccountExpect{
			{Client: 1, Available: "0"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "INSUFFICIENT_FUNDS", result.Outcomes[0].Code)
}

// TestRun_StepsWithoutExpect tests that unasserted steps only record outcomes.
func TestRun_StepsWithoutExpect(t *testing.T) {
	scenario := &Scenario{
		Name:        "no_expectations",
		Description: "A rejected step without an expect clause does not fail the run",
		Flow: []FlowStep{
			{Kind: "deposit", Client: 1, Tx: 1, Amount: "1.0"},
			{Kind: "withdrawal", Client: 1, Tx: 2, Amount: "9.0"},
		},
		Accounts: []AccountExpect{
			{Client: 1, Available: "1"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, OutcomeApplied, result.Outcomes[0].Outcome)
	assert.Equal(t, OutcomeRejected, result.Outcomes[1].Outcome)
}

// TestRun_AccountAssertionFailure tests that a balance mismatch fails the run.
func TestRun_AccountAssertionFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "balance_mismatch",
		Description: "Asserts the wrong available balance",
		Flow: []FlowStep{
			{Kind: "deposit", Client: 1, Tx: 1, Amount: "1.0"},
		},
		Accounts: []AccountExpect{
			{Client: 1, Available: "2"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "client 1 available")
}

// TestRun_PartiallySpentChargeback tests the negative-available report.
func TestRun_PartiallySpentChargeback(t *testing.T) {
	scenario := &Scenario{
		Name:        "partially_spent_chargeback",
		Description: "Disputed funds were partly withdrawn before the chargeback",
		Flow: []FlowStep{
			{Kind: "deposit", Client: 1, Tx: 1, Amount: "100.0", Expect: expectApplied()},
			{Kind: "withdrawal", Client: 1, Tx: 2, Amount: "70.0", Expect: expectApplied()},
			{Kind: "dispute", Client: 1, Tx: 1, Expect: expectApplied()},
		},
		Accounts: []AccountExpect{
			{Client: 1, Available: "-70", Held: "100", Total: "30", Locked: boolPtr(false)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

// TestRun_ReportRendering tests the CSV report attached to the result.
func TestRun_ReportRendering(t *testing.T) {
	scenario := &Scenario{
		Name:        "report",
		Description: "Report rows come out in client order with canonical amounts",
		Flow: []FlowStep{
			{Kind: "deposit", Client: 2, Tx: 1, Amount: "2.0000"},
			{Kind: "deposit", Client: 1, Tx: 2, Amount: "1.5"},
		},
		Accounts: []AccountExpect{
			{Client: 1, Available: "1.5"},
			{Client: 2, Available: "2"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	want := "client,available,held,total,locked\n" +
		"1,1.5,0,1.5,false\n" +
		"2,2,0,2,false\n"
	assert.Equal(t, want, result.Report)
}

// TestRun_InvalidAmount tests that a malformed step amount aborts the run.
func TestRun_InvalidAmount(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_amount",
		Description: "Amount is not a decimal",
		Flow: []FlowStep{
			{Kind: "deposit", Client: 1, Tx: 1, Amount: "lots"},
		},
		Accounts: []AccountExpect{
			{Client: 1, Available: "0"},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow step 0")
	assert.Contains(t, err.Error(), `invalid amount "lots"`)
}

// TestRun_NormalizesAmounts tests four-place rounding of step amounts.
func TestRun_NormalizesAmounts(t *testing.T) {
	scenario := &Scenario{
		Name:        "normalized",
		Description: "Step amounts round to four places like stream input",
		Flow: []FlowStep{
			{Kind: "deposit", Client: 1, Tx: 1, Amount: "1.23456"},
		},
		Accounts: []AccountExpect{
			{Client: 1, Available: "1.2346"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.True(t, strings.Contains(result.Report, "1,1.2346,0,1.2346,false"))
}
