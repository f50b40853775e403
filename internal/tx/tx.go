package tx

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies one of the five transaction kinds accepted on the wire.
type Kind string

const (
	// KindDeposit credits a client's available funds.
	KindDeposit Kind = "deposit"
	// KindWithdrawal debits a client's available funds.
	KindWithdrawal Kind = "withdrawal"
	// KindDispute opens a dispute against a prior deposit, holding its funds.
	KindDispute Kind = "dispute"
	// KindResolve closes a dispute and releases the held funds.
	KindResolve Kind = "resolve"
	// KindChargeback closes a dispute by reversing the deposit and
	// locking the account.
	KindChargeback Kind = "chargeback"
)

// ParseKind maps a wire-format type name to a Kind. Matching is
// case-insensitive. Unknown names are an adapter-level error and never
// reach the engine.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindDeposit:
		return KindDeposit, nil
	case KindWithdrawal:
		return KindWithdrawal, nil
	case KindDispute:
		return KindDispute, nil
	case KindResolve:
		return KindResolve, nil
	case KindChargeback:
		return KindChargeback, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Funded reports whether the kind carries its own amount. Dispute-chain
// kinds carry no amount; they reference a prior deposit's amount instead.
func (k Kind) Funded() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// ClientID identifies an account. 16-bit unsigned, per the wire format.
type ClientID uint16

// ID identifies a transaction. 32-bit unsigned, globally unique across
// the input stream for deposits.
type ID uint32

// AmountPlaces is the fixed-point precision amounts are normalized to
// on ingest.
const AmountPlaces int32 = 4

// Transaction is one event from the input stream.
//
// The five kinds form a closed set; Kind is the tag. Amount is
// meaningful only when Kind.Funded(): dispute, resolve, and chargeback
// leave it zero and use ID to reference the deposit under dispute.
type Transaction struct {
	Kind   Kind
	Client ClientID
	ID     ID
	Amount decimal.Decimal
}

// NormalizeAmount rounds an ingested amount to AmountPlaces decimal
// places using banker's rounding. Adapters apply this before
// constructing a Transaction so the engine only ever sees normalized
// amounts.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(AmountPlaces)
}
