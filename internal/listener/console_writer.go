package listener

import (
	"bytes"
	"fmt"
	"io"
)

// consoleWriter collects one console report and sends it as a single telnet
// frame. Line endings are normalised to CRLF whatever the report used, and the
// frame always ends on a fresh line.
type consoleWriter struct {
	w   io.Writer
	buf bytes.Buffer
}

func newConsoleWriter(w io.Writer) *consoleWriter {
	return &consoleWriter{w: w}
}

func (c *consoleWriter) Write(p []byte) (int, error) {
	c.buf.Write(p)
	return len(p), nil
}

// Flush writes the buffered report to the connection and resets the buffer.
func (c *consoleWriter) Flush() error {
	if c.buf.Len() == 0 {
		return nil
	}
	defer c.buf.Reset()

	text := bytes.ReplaceAll(c.buf.Bytes(), []byte("\r\n"), []byte("\n"))
	text = bytes.TrimRight(text, "\n")
	text = append(bytes.ReplaceAll(text, []byte("\n"), []byte("\r\n")), '\r', '\n')

	if _, err := c.w.Write(text); err != nil {
		return fmt.Errorf("flushing console: %w", err)
	}
	return nil
}
