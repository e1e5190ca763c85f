package compiler

import "strings"

// writer accumulates target text. Indentation is written lazily, when the first
// text of a new line arrives.
type writer struct {
	sb          strings.Builder
	indentation string
	startOfLine bool
}

func (w *writer) out(s string) {
	if w.startOfLine {
		w.startOfLine = false
		w.sb.WriteString(w.indentation)
	}
	w.sb.WriteString(s)
}

func (w *writer) newLine() {
	w.sb.WriteByte('\n')
	w.startOfLine = true
}

func (w *writer) indent() { w.indentation += "  " }

func (w *writer) unindent() {
	if len(w.indentation) >= 2 {
		w.indentation = w.indentation[2:]
	}
}

func (w *writer) String() string { return w.sb.String() }
