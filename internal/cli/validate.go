package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/eugene-eko2000/simple-payment-engine/internal/csvio"
)

// Error codes reported by the validate command.
const (
	ErrCodeInputNotFound  = "INPUT_NOT_FOUND"
	ErrCodeInputRead      = "INPUT_READ"
	ErrCodeMalformedInput = "MALFORMED_INPUT"
)

// MalformedRecord describes one row the parser rejected.
type MalformedRecord struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Records   int64             `json:"records"`
	Kinds     map[string]int64  `json:"kinds,omitempty"`
	Malformed []MalformedRecord `json:"malformed,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <transactions.csv>",
		Short: "Check a transaction stream without executing it",
		Long: `Parse every record of a CSV transaction stream without applying any
of them. Reports each malformed row with its position and cause.

Faster feedback than a full run when checking exports, and safe to
repeat: no account state is built.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, inputPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	f, err := os.Open(inputPath)
	if err != nil {
		_ = formatter.Error(ErrCodeInputNotFound, fmt.Sprintf("cannot open input: %v", err), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("cannot open input: %v", err))
	}
	defer f.Close()

	rd := csvio.NewReader(f)

	result := ValidationResult{Kinds: make(map[string]int64)}
	for {
		t, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr *csvio.RowError
		if errors.As(err, &rowErr) {
			result.Malformed = append(result.Malformed, MalformedRecord{
				Row:     rowErr.Row,
				Field:   rowErr.Field,
				Message: rowErr.Err.Error(),
			})
			continue
		}
		if err != nil {
			_ = formatter.Error(ErrCodeInputRead, fmt.Sprintf("read failed: %v", err), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("read failed: %v", err))
		}

		result.Records++
		result.Kinds[string(t.Kind)]++
	}

	formatter.VerboseLog("Parsed %d record(s) from %s", result.Records, inputPath)

	result.Valid = len(result.Malformed) == 0
	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationErrors(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %d record(s) valid\n", result.Records)
	for _, kind := range sortedKinds(result.Kinds) {
		fmt.Fprintf(formatter.Writer, "  %s: %d\n", kind, result.Kinds[kind])
	}
	return nil
}

// sortedKinds returns the counted kinds in lexical order.
func sortedKinds(m map[string]int64) []string {
	kinds := make([]string, 0, len(m))
	for kind := range m {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// outputValidationErrors outputs the malformed rows found in the stream.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	n := len(result.Malformed)

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeMalformedInput,
				Message: fmt.Sprintf("%d malformed record(s)", n),
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Malformed input = exit code 1 (validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d malformed record(s)", n))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, rec := range result.Malformed {
		if rec.Field != "" {
			fmt.Fprintf(formatter.Writer, "row %d (%s)\n", rec.Row, rec.Field)
		} else {
			fmt.Fprintf(formatter.Writer, "row %d\n", rec.Row)
		}
		fmt.Fprintf(formatter.Writer, "  %s\n\n", rec.Message)
	}

	// Malformed input = exit code 1 (validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d malformed record(s)", n))
}
