package runner

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maxvaer/dirprobe/internal/scanner"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// startStdinToggle puts the terminal into raw mode and toggles a Pauser on
// Enter or Space. Ctrl+C restores the terminal and re-raises SIGINT. When
// stdin is not a terminal the returned Pauser is nil.
func startStdinToggle(status io.Writer, logger zerolog.Logger) (*scanner.Pauser, func()) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, func() {}
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Warn().Err(err).Msg("Could not enable raw terminal, pause disabled")
		return nil, func() {}
	}
	// Raw mode also disables output post-processing; turn it back on so
	// "\n" still returns the cursor.
	enableOutputProcessing(fd)

	pauser := scanner.NewPauser()
	restore := func() { _ = term.Restore(fd, oldState) }

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			switch buf[0] {
			case 0x03: // Ctrl+C
				restore()
				raiseInterrupt()
				return
			case '\r', '\n', ' ':
				if pauser.Toggle() {
					fmt.Fprintf(status, "\r\033[K[*] Paused, press Enter or Space to resume\n")
				} else {
					fmt.Fprintf(status, "\r\033[K[*] Resumed after %s paused in total\n", pauser.PausedDuration().Round(time.Millisecond))
				}
			}
		}
	}()

	return pauser, restore
}
