package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maxvaer/dirprobe/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResults() []*scanner.ProbeResult {
	return []*scanner.ProbeResult{
		{Candidate: "admin", URL: "http://example.test/admin", StatusCode: 200, Matched: true},
		{Candidate: "login", URL: "http://example.test/login", StatusCode: 301, Location: "/login/", Matched: true},
		{Candidate: "api", URL: "http://example.test/api", StatusCode: 200, ContentLength: 1234, HasLength: true, Matched: true},
	}
}

func writeAll(t *testing.T, w Writer, stats Stats) {
	t.Helper()
	require.NoError(t, w.WriteHeader())
	for _, r := range sampleResults() {
		require.NoError(t, w.WriteResult(r))
	}
	require.NoError(t, w.WriteFooter(stats))
	require.NoError(t, w.Close())
}

func TestTextWriter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w, err := New(Options{Format: "text", NoColor: true, Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	writeAll(t, w, Stats{TotalRequests: 10, MatchCount: 3, Duration: time.Second, RequestsPerSec: 10})

	assert.Equal(t,
		"/admin (Status: 200)\n"+
			"/login (Status: 301)\n"+
			"/api (Status: 200 | Content-Length: 1234)\n",
		stdout.String())
	assert.Contains(t, stderr.String(), "Completed: 10 requests | Matches: 3 | Errors: 0")
}

func TestTextWriter_QuietSkipsFooter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w, err := New(Options{NoColor: true, Quiet: true, Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	writeAll(t, w, Stats{})
	assert.Empty(t, stderr.String())
	assert.Equal(t, 3, strings.Count(stdout.String(), "\n"))
}

func TestTextWriter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	var stdout bytes.Buffer
	w, err := New(Options{File: path, Stdout: &stdout, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)

	writeAll(t, w, Stats{})
	assert.Empty(t, stdout.String())

	data := readFile(t, path)
	assert.Contains(t, data, "/admin (Status: 200)\n")
	assert.NotContains(t, data, "\x1b[")
}

func TestJSONWriter(t *testing.T) {
	var stdout bytes.Buffer
	w, err := New(Options{Format: "json", Stdout: &stdout})
	require.NoError(t, err)

	writeAll(t, w, Stats{})

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "admin", entries[0]["candidate"])
	assert.NotContains(t, entries[0], "content_length")
	assert.Equal(t, "/login/", entries[1]["location"])
	assert.Equal(t, float64(1234), entries[2]["content_length"])
}

func TestJSONWriter_NoResults(t *testing.T) {
	var stdout bytes.Buffer
	w, err := New(Options{Format: "json", Stdout: &stdout})
	require.NoError(t, err)
	require.NoError(t, w.WriteFooter(Stats{}))
	assert.Equal(t, "[]\n", stdout.String())
}

func TestCSVWriter(t *testing.T) {
	var stdout bytes.Buffer
	w, err := New(Options{Format: "csv", Stdout: &stdout})
	require.NoError(t, err)

	writeAll(t, w, Stats{})

	rows, err := csv.NewReader(&stdout).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"candidate", "url", "status", "content_length", "location"}, rows[0])
	assert.Equal(t, []string{"admin", "http://example.test/admin", "200", "", ""}, rows[1])
	assert.Equal(t, "1234", rows[3][3])
}

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	w, err := New(Options{Format: "xlsx", File: path})
	require.NoError(t, err)

	writeAll(t, w, Stats{TotalRequests: 42, MatchCount: 3})

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, xlsxHeaders, rows[0])
	assert.Equal(t, "admin", rows[1][0])
	assert.Equal(t, "1234", rows[3][3])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Requests", "42"}, summary[1])
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xlsx"})
	assert.Error(t, err)
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(4, &buf)
	for i := 0; i < 4; i++ {
		p.Increment()
	}
	p.IncrementMatched()
	p.IncrementErrors()

	s := p.Stats()
	assert.Equal(t, int64(4), s.TotalRequests)
	assert.Equal(t, int64(1), s.MatchCount)
	assert.Equal(t, int64(1), s.ErrorCount)

	p.Start(time.Hour)
	p.Stop()
	p.Stop()
	assert.Contains(t, buf.String(), "[100%] 4/4")
}

func TestProgress_UnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(-1, &buf)
	p.Increment()
	p.print()
	assert.Contains(t, buf.String(), "Matches: 0")
	assert.NotContains(t, buf.String(), "%")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
