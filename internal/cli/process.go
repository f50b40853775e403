package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/eugene-eko2000/simple-payment-engine/internal/config"
	"github.com/eugene-eko2000/simple-payment-engine/internal/csvio"
	"github.com/eugene-eko2000/simple-payment-engine/internal/engine"
	"github.com/eugene-eko2000/simple-payment-engine/internal/store"
)

// ProcessOptions holds flags for the process command.
type ProcessOptions struct {
	*RootOptions
	Output string

	// TokenGen allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TokenGen RunTokenGenerator
}

// NewProcessCommand creates the process command.
func NewProcessCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProcessOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "process <transactions.csv>",
		Short: "Process a transaction stream and report account state",
		Long: `Process a chronological CSV transaction stream in a single pass.

Deposits, withdrawals, disputes, resolves and chargebacks are applied in
arrival order. Malformed records and rejected transactions are skipped
and tallied; neither stops the stream. When the stream ends, the final
state of every account is written as CSV in ascending client order.

The report goes to stdout (or --output). Progress and summary
diagnostics go to stderr, so a redirected report stays clean.

Example:
  payment-engine process transactions.csv > accounts.csv
  payment-engine process transactions.csv --output accounts.csv --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the account report to a file instead of stdout")

	return cmd
}

func runProcess(opts *ProcessOptions, inputPath string, cmd *cobra.Command) error {
	cfg := config.Load()

	// Configure logging based on config and the verbose flag
	logLevel := cfg.Level()
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	tokenGen := opts.TokenGen
	if tokenGen == nil {
		tokenGen = UUIDv7Generator{}
	}
	logger := slog.With("run", tokenGen.Generate())

	f, err := os.Open(inputPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer f.Close()

	st := store.New()
	eng := engine.New(st)
	rd := csvio.NewReader(f)

	logger.Info("processing stream", "input", inputPath)
	start := time.Now()

	var (
		processed int64
		malformed int64
		rejected  = make(map[engine.ErrorCode]int64)
	)
	for {
		t, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr *csvio.RowError
		if errors.As(err, &rowErr) {
			malformed++
			logger.Warn("skipping malformed record", "row", rowErr.Row, "error", rowErr.Err)
			continue
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read input", err)
		}

		processed++
		if execErr := eng.Execute(t); execErr != nil {
			code := engine.CodeOf(execErr)
			rejected[code]++
			logger.Debug("transaction rejected",
				"code", code,
				"kind", t.Kind,
				"client", t.Client,
				"tx", t.ID,
			)
		}

		if cfg.ProgressEvery > 0 && processed%cfg.ProgressEvery == 0 {
			logger.Info("progress", "records", processed)
		}
	}

	out := cmd.OutOrStdout()
	if opts.Output != "" {
		rf, err := os.Create(opts.Output)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create report file", err)
		}
		defer rf.Close()
		out = rf
	}

	if err := csvio.WriteReport(out, st); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}

	var totalRejected int64
	for _, code := range sortedCodes(rejected) {
		totalRejected += rejected[code]
		logger.Info("rejected transactions", "code", code, "count", rejected[code])
	}
	logger.Info("run complete",
		"records", processed,
		"applied", processed-totalRejected,
		"malformed", malformed,
		"rejected", totalRejected,
		"accounts", st.AccountCount(),
		"deposits", st.DepositCount(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	return nil
}

// sortedCodes returns rejection codes in lexical order so the summary is
// deterministic run to run.
func sortedCodes(m map[engine.ErrorCode]int64) []engine.ErrorCode {
	codes := make([]engine.ErrorCode, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
