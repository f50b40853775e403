package harness

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"github.com/eugene-eko2000/simple-payment-engine/internal/store"
	"github.com/eugene-eko2000/simple-payment-engine/internal/tx"
)

// CheckInvariants verifies the ledger conditions every flow must leave
// intact, regardless of what the scenario's expect clauses assert.
//
// Checked conditions:
//  1. No account holds a negative amount.
//  2. Each client's held balance equals the sum of that client's
//     deposits currently under dispute.
//  3. Every disputed deposit belongs to a client with an account.
//
// Returns one message per violation. A violation is an engine defect,
// never a scenario authoring mistake, so every scenario run checks
// these for free.
func CheckInvariants(st *store.Store) []string {
	var violations []string

	// Aggregate disputed amounts per client in a pass over the history.
	var disputed btree.Map[tx.ClientID, decimal.Decimal]
	st.Deposits(func(id tx.ID, rec *store.DepositRecord) bool {
		if !rec.Disputed {
			return true
		}
		sum, _ := disputed.Get(rec.Client)
		disputed.Set(rec.Client, sum.Add(rec.Amount))
		return true
	})

	st.Accounts(func(client tx.ClientID, acct *store.Account) bool {
		if acct.Held.Sign() < 0 {
			violations = append(violations, fmt.Sprintf(
				"invariant: client %d holds negative amount %s", client, acct.Held))
		}
		want, _ := disputed.Get(client)
		if !acct.Held.Equal(want) {
			violations = append(violations, fmt.Sprintf(
				"invariant: client %d held %s does not match disputed deposits %s",
				client, acct.Held, want))
		}
		return true
	})

	disputed.Scan(func(client tx.ClientID, sum decimal.Decimal) bool {
		if _, ok := st.Account(client); !ok {
			violations = append(violations, fmt.Sprintf(
				"invariant: client %d has disputed deposits but no account", client))
		}
		return true
	})

	return violations
}
