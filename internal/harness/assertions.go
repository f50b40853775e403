package harness

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eugene-eko2000/simple-payment-engine/internal/store"
	"github.com/eugene-eko2000/simple-payment-engine/internal/tx"
)

// AssertionError is returned when an account assertion fails.
// It names the field and both values to make the mismatch obvious.
type AssertionError struct {
	Client   uint16 // Account under assertion
	Field    string // Field that mismatched
	Expected string // Human-readable expected value
	Actual   string // Human-readable actual value
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: client %d %s\n", e.Client, e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)

	return buf.String()
}

// EvaluateAccounts checks every account assertion against the final
// store state. Returns one message per failed assertion.
func EvaluateAccounts(st *store.Store, expects []AccountExpect) []string {
	var errs []string

	for _, expect := range expects {
		for _, err := range evaluateAccount(st, expect) {
			errs = append(errs, err.Error())
		}
	}

	return errs
}

// evaluateAccount checks one account's asserted fields.
func evaluateAccount(st *store.Store, expect AccountExpect) []error {
	acct, ok := st.Account(tx.ClientID(expect.Client))
	if !ok {
		return []error{&AssertionError{
			Client:   expect.Client,
			Field:    "account",
			Expected: "present",
			Actual:   "not found",
		}}
	}

	var errs []error

	if err := checkAmount(expect.Client, "available", expect.Available, acct.Available); err != nil {
		errs = append(errs, err)
	}
	if err := checkAmount(expect.Client, "held", expect.Held, acct.Held); err != nil {
		errs = append(errs, err)
	}
	if err := checkAmount(expect.Client, "total", expect.Total, acct.Total()); err != nil {
		errs = append(errs, err)
	}
	if expect.Locked != nil && acct.Locked != *expect.Locked {
		errs = append(errs, &AssertionError{
			Client:   expect.Client,
			Field:    "locked",
			Expected: fmt.Sprintf("%t", *expect.Locked),
			Actual:   fmt.Sprintf("%t", acct.Locked),
		})
	}

	return errs
}

// checkAmount compares one decimal field against its asserted value.
// An empty asserted value skips the check. Comparison is numeric, so
// "1.5" matches "1.5000".
func checkAmount(client uint16, field, want string, got decimal.Decimal) error {
	if want == "" {
		return nil
	}

	expected, err := decimal.NewFromString(want)
	if err != nil {
		return &AssertionError{
			Client:   client,
			Field:    field,
			Expected: fmt.Sprintf("a decimal, got %q", want),
			Actual:   got.String(),
		}
	}

	if !got.Equal(expected) {
		return &AssertionError{
			Client:   client,
			Field:    field,
			Expected: expected.String(),
			Actual:   got.String(),
		}
	}

	return nil
}
