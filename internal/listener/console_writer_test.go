package listener

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.writes++
	return c.Buffer.Write(p)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestConsoleWriter_Flush(t *testing.T) {
	tests := map[string]struct {
		chunks    []string
		exp       string
		expWrites int
	}{
		"nothing buffered": {},
		"adds final line ending": {
			chunks:    []string{"Weather: Fog."},
			exp:       "Weather: Fog.\r\n",
			expWrites: 1,
		},
		"converts lf": {
			chunks:    []string{"a\nb\n"},
			exp:       "a\r\nb\r\n",
			expWrites: 1,
		},
		"keeps existing crlf": {
			chunks:    []string{"a\r\nb\r\n"},
			exp:       "a\r\nb\r\n",
			expWrites: 1,
		},
		"collapses trailing blank lines": {
			chunks:    []string{"a\n\n\n"},
			exp:       "a\r\n",
			expWrites: 1,
		},
		"chunks become one frame": {
			chunks:    []string{"== SPRAWL STATUS ==\n", "Districts: 3\n"},
			exp:       "== SPRAWL STATUS ==\r\nDistricts: 3\r\n",
			expWrites: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out := &countingWriter{}
			cw := newConsoleWriter(out)
			for _, c := range tt.chunks {
				n, err := cw.Write([]byte(c))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "written", n, len(c))
			}
			testutil.AssertEqual(t, "writes before flush", out.writes, 0)

			if err := cw.Flush(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "output", out.String(), tt.exp)
			testutil.AssertEqual(t, "writes", out.writes, tt.expWrites)
		})
	}
}

func TestConsoleWriter_FlushError(t *testing.T) {
	cw := newConsoleWriter(failingWriter{})
	_, _ = cw.Write([]byte("status\n"))

	testutil.AssertErrorContains(t, cw.Flush(), "flushing console")
}
