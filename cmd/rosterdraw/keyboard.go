package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/abrezinsky/rosterdraw/internal/browser"
	"github.com/abrezinsky/rosterdraw/internal/logger"
)

// keyboard puts stdin in raw mode so single keys act as shortcuts
type keyboard struct {
	fd    int
	state *term.State
}

// newKeyboard returns nil when stdin is not a terminal
func newKeyboard() (*keyboard, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	return &keyboard{fd: fd, state: state}, nil
}

// Restore puts the terminal back the way it was
func (k *keyboard) Restore() {
	if k != nil {
		term.Restore(k.fd, k.state)
	}
}

// listen reads keys until ctx is done or the user quits
func (k *keyboard) listen(ctx context.Context, quit context.CancelFunc, hostURL, viewerURL string, appLog *logger.SlogLogger) {
	buf := make([]byte, 1)
	for ctx.Err() == nil {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}

		switch strings.ToLower(string(buf[0])) {
		case "a":
			say("%sOpening host console in browser...%s\n", cyan, reset)
			if err := browser.Open(hostURL); err != nil {
				say("%sError opening browser: %v%s\n", red, err, reset)
			}
		case "v":
			say("%sOpening viewer screen in browser...%s\n", cyan, reset)
			if err := browser.Open(viewerURL); err != nil {
				say("%sError opening browser: %v%s\n", red, err, reset)
			}
		case "h":
			if appLog.IsHTTPLoggingEnabled() {
				appLog.DisableHTTPLogging()
				say("%sHTTP logging disabled%s\n", yellow, reset)
			} else {
				appLog.EnableHTTPLogging()
				say("%sHTTP logging enabled%s\n", green, reset)
			}
		case "l":
			cycleLogLevel(appLog)
		case "?":
			printKeyboardHelp()
		case "q", "\x03": // Ctrl+C arrives as a byte in raw mode
			say("%sShutting down server...%s\n", yellow, reset)
			quit()
			return
		}
	}
}

// say prints with CRLF line endings; raw mode turns off output translation
func say(format string, args ...any) {
	fmt.Fprint(crlfWriter{os.Stdout}, fmt.Sprintf(format, args...))
}

// crlfWriter rewrites \n to \r\n for output while the terminal is raw
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
