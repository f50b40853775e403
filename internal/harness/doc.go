// Package harness provides scenario-based conformance testing for the
// payment engine.
//
// The harness loads YAML scenario files, applies their transaction flow
// to a fresh engine, and validates per-step outcomes and final account
// state as executable contract tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	flow:
//	  - kind: deposit
//	    client: 1
//	    tx: 1
//	    amount: "10.0"
//	  - kind: dispute
//	    client: 1
//	    tx: 1
//	    expect:
//	      outcome: applied
//	  - kind: withdrawal
//	    client: 1
//	    tx: 2
//	    amount: "3.0"
//	    expect:
//	      outcome: rejected
//	      code: INSUFFICIENT_FUNDS
//	accounts:
//	  - client: 1
//	    available: "0"
//	    held: "10.0"
//	    total: "10.0"
//	    locked: false
//
// # Expect Clauses
//
// A flow step with no expect clause is applied without validation; its
// outcome is still recorded. With an expect clause, outcome must be
// "applied" or "rejected", and a rejected step can additionally pin the
// rejection code.
//
// # Deterministic Reports
//
// Every run renders the final account report in ascending client order
// with amounts in canonical form, so a scenario's report is identical
// across runs and suitable for golden file comparison.
//
// # Usage
//
// Load a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/dispute.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Execute it:
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
