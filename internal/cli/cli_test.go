package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWelcome(t *testing.T) {
	var buf bytes.Buffer
	Welcome(&buf, "1.2.3", "data.csv", false, map[string]string{"dataset": "data.csv"})
	out := buf.String()
	assert.Contains(t, out, "Welcome to DANA v1.2.3")
	assert.Contains(t, out, "Starting DANA analysis on data.csv.")
	assert.NotContains(t, out, "Parameters:")

	buf.Reset()
	Welcome(&buf, "1.2.3", "data.csv", true, map[string]string{"verbose": "true", "dataset": "data.csv"})
	out = buf.String()
	assert.Contains(t, out, "Parameters:")
	assert.Contains(t, out, "--dataset: data.csv")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("--dataset")), bytes.Index(buf.Bytes(), []byte("--verbose")))
}

func TestClose(t *testing.T) {
	var buf bytes.Buffer
	Close(&buf, 1500*time.Millisecond)
	assert.Equal(t, "DANA analysis finished. \nElapsed time 1.50s\n", buf.String())
}

func TestFormatError(t *testing.T) {
	assert.Contains(t, FormatError("boom"), "✗ Error: boom")
	assert.Contains(t, FormatSuccess("done"), "✓ done")
	assert.Contains(t, FormatWarning("slow"), "⚠ slow")
	assert.Contains(t, FormatTitle("Report"), "Report")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := Progress(&buf, "Computing distances")
	for i := 1; i <= 4; i++ {
		p(i, 4)
	}
	assert.Contains(t, buf.String(), "Computing distances")
}
