package backend

import (
	"fmt"
	"strings"
)

// Writer accumulates generated source, indenting every line it starts.
type Writer struct {
	output     strings.Builder
	indent     int
	lineStart  bool
	atBlockEnd bool
}

func NewWriter() *Writer {
	return &Writer{lineStart: true}
}

func (w *Writer) Write(s string) {
	w.atBlockEnd = false
	for s != "" {
		if w.lineStart && s[0] != '\n' {
			for i := 0; i < 2*w.indent; i++ {
				w.output.WriteByte(' ')
			}
		}
		line := s
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			line = s[:i+1]
		}
		w.output.WriteString(line)
		w.lineStart = line[len(line)-1] == '\n'
		s = s[len(line):]
	}
}

// Line writes a formatted line.
func (w *Writer) Line(format string, args ...interface{}) {
	w.Write(fmt.Sprintf(format, args...) + "\n")
}

func (w *Writer) Indent() {
	w.indent++
}

func (w *Writer) Dedent() {
	w.indent--
}

func (w *Writer) String() string {
	return w.output.String()
}
