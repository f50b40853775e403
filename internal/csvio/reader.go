package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/eugene-eko2000/simple-payment-engine/internal/tx"
)

// RowError describes one malformed input row.
//
// It is deliberately distinct from I/O errors: callers skip RowErrors
// (logging them is their policy) and abort on anything else.
type RowError struct {
	// Row is the 1-based input row, counting the header as row 1.
	Row int

	// Field names the offending column, or "record" for shape problems.
	Field string

	// Err is the underlying parse failure.
	Err error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: bad %s: %v", e.Row, e.Field, e.Err)
}

// Unwrap returns the underlying parse failure.
func (e *RowError) Unwrap() error {
	return e.Err
}

// Reader streams transactions from CSV input, one record per Read.
type Reader struct {
	csv        *csv.Reader
	row        int
	headerRead bool
}

// NewReader wraps r for streaming transaction reads.
//
// The source passes through a BOM-stripping UTF-8 decoder first, so
// files exported from spreadsheets parse cleanly. Rows may have a
// variable number of fields; leading space after commas is tolerated.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{csv: cr}
}

// Read returns the next transaction from the stream.
//
// Returns io.EOF at end of input, *RowError for a malformed row (the
// stream remains readable, skip and continue), or the underlying
// error for a real I/O failure.
func (r *Reader) Read() (tx.Transaction, error) {
	if !r.headerRead {
		r.headerRead = true
		r.row++
		if _, err := r.csv.Read(); err != nil {
			if err == io.EOF {
				return tx.Transaction{}, io.EOF
			}
			return tx.Transaction{}, &RowError{Row: r.row, Field: "record", Err: err}
		}
	}

	rec, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return tx.Transaction{}, io.EOF
		}
		r.row++
		return tx.Transaction{}, &RowError{Row: r.row, Field: "record", Err: err}
	}
	r.row++

	return r.parseRecord(rec)
}

// parseRecord maps one raw CSV record to a Transaction.
// Layout: type, client, tx, amount. The amount column is optional.
func (r *Reader) parseRecord(rec []string) (tx.Transaction, error) {
	if len(rec) < 3 || len(rec) > 4 {
		return tx.Transaction{}, &RowError{
			Row:   r.row,
			Field: "record",
			Err:   fmt.Errorf("expected 3 or 4 fields, got %d", len(rec)),
		}
	}

	kind, err := tx.ParseKind(strings.TrimSpace(rec[0]))
	if err != nil {
		return tx.Transaction{}, &RowError{Row: r.row, Field: "type", Err: err}
	}

	client, err := strconv.ParseUint(strings.TrimSpace(rec[1]), 10, 16)
	if err != nil {
		return tx.Transaction{}, &RowError{Row: r.row, Field: "client", Err: err}
	}

	id, err := strconv.ParseUint(strings.TrimSpace(rec[2]), 10, 32)
	if err != nil {
		return tx.Transaction{}, &RowError{Row: r.row, Field: "tx", Err: err}
	}

	// An absent or empty amount parses as zero. The engine rejects
	// zero-amount deposits and withdrawals, so the leniency here never
	// credits anything.
	amount := decimal.Decimal{}
	if len(rec) == 4 {
		if raw := strings.TrimSpace(rec[3]); raw != "" {
			amount, err = decimal.NewFromString(raw)
			if err != nil {
				return tx.Transaction{}, &RowError{Row: r.row, Field: "amount", Err: err}
			}
			amount = tx.NormalizeAmount(amount)
		}
	}

	return tx.Transaction{
		Kind:   kind,
		Client: tx.ClientID(client),
		ID:     tx.ID(id),
		Amount: amount,
	}, nil
}
