package wordlist

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch <-chan string) []string {
	var out []string
	for s := range ch {
		out = append(out, s)
	}
	return out
}

func TestStream(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "lf", input: "admin\nlogin\n", want: []string{"admin", "login"}},
		{name: "crlf", input: "admin\r\nlogin\r\n", want: []string{"admin", "login"}},
		{name: "no trailing newline", input: "admin\nlogin", want: []string{"admin", "login"}},
		{name: "empty lines skipped", input: "\n\nadmin\n\n\nlogin\n\n", want: []string{"admin", "login"}},
		{name: "duplicates kept", input: "a\na\nb\na\n", want: []string{"a", "a", "b", "a"}},
		{name: "whitespace kept", input: " admin \n\tx\n", want: []string{" admin ", "\tx"}},
		{name: "comments are candidates", input: "#notes\n", want: []string{"#notes"}},
		{name: "empty input", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := FromReader(strings.NewReader(tt.input))
			got := drain(src.Stream(context.Background(), 4))
			assert.Equal(t, tt.want, got)
			assert.NoError(t, src.Err())
		})
	}
}

func TestOpenAndCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n\nb\r\nc\n"), 0644))

	src, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Path())

	n, err := src.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Counting does not consume the file.
	assert.Equal(t, []string{"a", "b", "c"}, drain(src.Stream(context.Background(), 0)))
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStdinCountUnknown(t *testing.T) {
	src := FromReader(strings.NewReader("a\n"))
	n, err := src.Count()
	require.NoError(t, err)
	assert.Equal(t, -1, n)
}

func TestStreamStopsOnCancel(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10000; i++ {
		b.WriteString("word\n")
	}
	src := FromReader(strings.NewReader(b.String()))

	ctx, cancel := context.WithCancel(context.Background())
	ch := src.Stream(ctx, 0)
	<-ch
	cancel()

	got := len(drain(ch))
	assert.Less(t, got, 9999)
}

func TestStreamLineTooLong(t *testing.T) {
	src := FromReader(strings.NewReader(strings.Repeat("x", maxLineSize+1) + "\n"))
	assert.Empty(t, drain(src.Stream(context.Background(), 0)))
	assert.Error(t, src.Err())
}
