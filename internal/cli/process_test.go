package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempCSV writes a transaction stream to a temp file and returns its path.
func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleStream = `type,client,tx,amount
deposit,1,1,1.0
deposit,2,2,2.0
deposit,1,3,2.0
withdrawal,1,4,1.5
withdrawal,2,5,3.0
`

const sampleReport = "client,available,held,total,locked\n" +
	"1,1.5,0,1.5,false\n" +
	"2,2,0,2,false\n"

// TestProcessCommand_ReportToStdout tests the report and diagnostic streams.
func TestProcessCommand_ReportToStdout(t *testing.T) {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"process", writeTempCSV(t, sampleStream)})

	require.NoError(t, cmd.Execute())

	// Report alone on stdout, diagnostics on stderr
	assert.Equal(t, sampleReport, out.String())
	assert.Contains(t, errOut.String(), "processing stream")
	assert.Contains(t, errOut.String(), "run complete")
	assert.Contains(t, errOut.String(), "run=")
	assert.Contains(t, errOut.String(), "INSUFFICIENT_FUNDS")
}

// TestProcessCommand_OutputFile tests writing the report to a file.
func TestProcessCommand_OutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "report.csv")

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"process", writeTempCSV(t, sampleStream), "--output", outPath})

	require.NoError(t, cmd.Execute())

	assert.Empty(t, out.String())
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, sampleReport, string(data))
}

// TestProcessCommand_MissingInput tests the exit code for an absent file.
func TestProcessCommand_MissingInput(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"process", filepath.Join(t.TempDir(), "nope.csv")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to open input")
}

// TestProcessCommand_SkipsMalformed tests that bad rows are logged and
// skipped without stopping the stream.
func TestProcessCommand_SkipsMalformed(t *testing.T) {
	stream := `type,client,tx,amount
deposit,1,1,5.0
teleport,1,2,1.0
deposit,1,2,not-a-number
withdrawal,1,3,2.0
`

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"process", writeTempCSV(t, stream)})

	require.NoError(t, cmd.Execute())

	want := "client,available,held,total,locked\n1,3,0,3,false\n"
	assert.Equal(t, want, out.String())
	assert.Contains(t, errOut.String(), "skipping malformed record")
	assert.Contains(t, errOut.String(), "row=3")
	assert.Contains(t, errOut.String(), "malformed=2")
}

// TestProcessCommand_DisputeStream tests the dispute lifecycle end to end.
func TestProcessCommand_DisputeStream(t *testing.T) {
	stream := `type,client,tx,amount
deposit,1,1,100.0
withdrawal,1,2,70.0
dispute,1,1,
`

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"process", writeTempCSV(t, stream)})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "client,available,held,total,locked\n1,-70,100,30,false\n", out.String())
}

// TestProcessCommand_Verbose tests that rejections surface in debug logs.
func TestProcessCommand_Verbose(t *testing.T) {
	cmd := NewRootCommand()
	var errOut bytes.Buffer
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"process", writeTempCSV(t, sampleStream), "--verbose"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "transaction rejected")
	assert.Contains(t, errOut.String(), "code=INSUFFICIENT_FUNDS")
}

// TestRunProcess_RunToken tests log correlation with an injected token.
func TestRunProcess_RunToken(t *testing.T) {
	opts := &ProcessOptions{
		RootOptions: &RootOptions{Format: "text"},
		TokenGen:    NewFixedGenerator("run-fixed-1"),
	}

	cmd := &cobra.Command{}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	require.NoError(t, runProcess(opts, writeTempCSV(t, sampleStream), cmd))
	assert.Equal(t, sampleReport, out.String())
	assert.Contains(t, errOut.String(), "run=run-fixed-1")
}
