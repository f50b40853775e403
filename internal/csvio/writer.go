package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/eugene-eko2000/simple-payment-engine/internal/store"
	"github.com/eugene-eko2000/simple-payment-engine/internal/tx"
)

// reportHeader is the fixed column set of the account report.
var reportHeader = []string{"client", "available", "held", "total", "locked"}

// WriteReport renders the final state of every account as CSV.
//
// Rows are emitted in ascending client-ID order with amounts in
// canonical form (trailing fractional zeros trimmed) and locked as a
// true/false literal, so identical runs produce identical bytes.
func WriteReport(w io.Writer, st *store.Store) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	var rowErr error
	st.Accounts(func(client tx.ClientID, acct *store.Account) bool {
		rec := []string{
			strconv.FormatUint(uint64(client), 10),
			acct.Available.String(),
			acct.Held.String(),
			acct.Total().String(),
			strconv.FormatBool(acct.Locked),
		}
		if err := cw.Write(rec); err != nil {
			rowErr = fmt.Errorf("write account %d: %w", client, err)
			return false
		}
		return true
	})
	if rowErr != nil {
		return rowErr
	}

	cw.Flush()
	return cw.Error()
}
