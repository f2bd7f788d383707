package transport

import (
	"log/slog"
	"os"

	"github.com/phsym/console-slog"
	"golang.org/x/term"
)

// defaultLogger returns a slog.Logger writing to stderr: a console-slog
// handler when stderr is an interactive terminal, the stock JSON handler
// otherwise, so a connection's recoverable parse/CRC/signing errors read
// well both at a developer's terminal and in a collected log file.
func defaultLogger() *slog.Logger {
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = console.NewHandler(os.Stderr, &console.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}
