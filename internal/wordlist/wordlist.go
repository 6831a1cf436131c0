package wordlist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// StdinPath selects standard input as the wordlist.
const StdinPath = "-"

// maxLineSize bounds a single wordlist entry.
const maxLineSize = 1024 * 1024

// Source streams candidates from a wordlist lazily, one line at a time.
// Line endings ("\n" or "\r\n") are removed and empty lines skipped; lines
// are otherwise passed through untouched, duplicates included.
type Source struct {
	path string
	open func() (io.ReadCloser, error)

	mu  sync.Mutex
	err error
}

// Open checks that the wordlist at path is readable and returns a Source
// for it. Nothing is read until Stream is called.
func Open(path string) (*Source, error) {
	if path == StdinPath {
		return FromReader(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wordlist %s: %w", path, err)
	}
	f.Close()
	return &Source{
		path: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FromReader wraps r. The resulting Source can only be streamed once.
func FromReader(r io.Reader) *Source {
	return &Source{
		path: StdinPath,
		open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
	}
}

// Path returns the wordlist path, or "-" for readers.
func (s *Source) Path() string {
	return s.path
}

// Count returns the number of candidates in the file, or -1 when the
// source cannot be read twice.
func (s *Source) Count() (int, error) {
	if s.path == StdinPath {
		return -1, nil
	}
	rc, err := s.open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	n := 0
	err = scan(rc, func(string) bool {
		n++
		return true
	})
	return n, err
}

// Stream sends every candidate on the returned channel and closes it at the
// end of input or when ctx is done. Read errors are available from Err once
// the channel is closed.
func (s *Source) Stream(ctx context.Context, buffer int) <-chan string {
	out := make(chan string, buffer)
	go func() {
		defer close(out)
		rc, err := s.open()
		if err != nil {
			s.setErr(err)
			return
		}
		defer rc.Close()

		err = scan(rc, func(line string) bool {
			select {
			case out <- line:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil {
			s.setErr(fmt.Errorf("reading wordlist %s: %w", s.path, err))
		}
	}()
	return out
}

// Err returns the first error hit while streaming.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Source) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// scan calls fn for each non-empty line until fn returns false.
func scan(r io.Reader, fn func(line string) bool) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if !fn(line) {
			return nil
		}
	}
	return sc.Err()
}
