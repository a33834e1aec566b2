package listener

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pixil98/go-sprawl/internal/report"
	"github.com/pixil98/go-sprawl/internal/world"
)

const consoleBanner = "== SPRAWL STATUS ==\n"

// StatusSource reports the current world status.
type StatusSource interface {
	Status() world.Status
}

// StatusConsole writes one status report to each connection it accepts.
type StatusConsole struct {
	source StatusSource
}

func NewStatusConsole(source StatusSource) *StatusConsole {
	return &StatusConsole{source: source}
}

func (c *StatusConsole) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := c.writeStatus(newConsoleWriter(conn)); err != nil {
		slog.WarnContext(ctx, "status console", "error", err)
	}
}

func (c *StatusConsole) writeStatus(w *consoleWriter) error {
	text, err := report.Status(c.source.Status())
	if err != nil {
		return fmt.Errorf("rendering status: %w", err)
	}

	_, _ = io.WriteString(w, consoleBanner+text)
	return w.Flush()
}
