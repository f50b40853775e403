package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eugene-eko2000/simple-payment-engine/internal/tx"
)

// Scenario defines a conformance test scenario.
// Scenarios apply a flow of transactions to a fresh engine and assert
// on per-step outcomes and the resulting account state.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Flow contains the transactions to apply, in order.
	Flow []FlowStep `yaml:"flow"`

	// Accounts asserts on final account state after the flow completes.
	Accounts []AccountExpect `yaml:"accounts"`
}

// FlowStep represents one transaction in the flow.
type FlowStep struct {
	// Kind is the transaction kind (deposit, withdrawal, dispute,
	// resolve, chargeback).
	Kind string `yaml:"kind"`

	// Client is the account the transaction addresses.
	Client uint16 `yaml:"client"`

	// Tx is the transaction ID (for dispute-chain steps, the referenced
	// deposit ID).
	Tx uint32 `yaml:"tx"`

	// Amount is the decimal amount for deposits and withdrawals.
	// Ignored for dispute-chain steps.
	Amount string `yaml:"amount,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, the step's outcome is recorded but not validated.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected per-step behavior.
type ExpectClause struct {
	// Outcome is "applied" or "rejected".
	Outcome string `yaml:"outcome"`

	// Code is the expected rejection code (e.g. "INSUFFICIENT_FUNDS").
	// Only valid with outcome "rejected"; empty accepts any code.
	Code string `yaml:"code,omitempty"`
}

// AccountExpect asserts on one account's final state.
// Amount fields are decimal strings; empty fields are not checked.
type AccountExpect struct {
	Client    uint16 `yaml:"client"`
	Available string `yaml:"available,omitempty"`
	Held      string `yaml:"held,omitempty"`
	Total     string `yaml:"total,omitempty"`
	Locked    *bool  `yaml:"locked,omitempty"`
}

// Step outcome names used in expect clauses.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "account:" vs "accounts:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate required fields
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	if len(s.Accounts) == 0 {
		return fmt.Errorf("accounts list is required and must be non-empty")
	}

	// Validate flow steps
	for i, step := range s.Flow {
		if step.Kind == "" {
			return fmt.Errorf("flow[%d]: kind is required", i)
		}
		if _, err := tx.ParseKind(step.Kind); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
		if step.Expect != nil {
			switch step.Expect.Outcome {
			case OutcomeApplied, OutcomeRejected:
			case "":
				return fmt.Errorf("flow[%d].expect: outcome is required", i)
			default:
				return fmt.Errorf("flow[%d].expect: unknown outcome %q", i, step.Expect.Outcome)
			}
			if step.Expect.Outcome == OutcomeApplied && step.Expect.Code != "" {
				return fmt.Errorf("flow[%d].expect: code is only valid with outcome %q", i, OutcomeRejected)
			}
		}
	}

	// Validate account assertions
	for i, acct := range s.Accounts {
		if acct.Available == "" && acct.Held == "" && acct.Total == "" && acct.Locked == nil {
			return fmt.Errorf("accounts[%d]: at least one of available, held, total, locked is required", i)
		}
	}

	return nil
}
