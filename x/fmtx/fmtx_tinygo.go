//go:build tinygo

package fmtx

import "io"

// DefaultOutput is where Print and Printf write. Set it from the board
// bootstrap, e.g. to the USB serial writer.
var DefaultOutput io.Writer = discard{}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func Sprintf(format string, a ...any) string { return sprintf(format, a...) }
func Sprint(a ...any) string                 { return sprint(a...) }
func Errorf(format string, a ...any) error   { return &stringError{sprintf(format, a...)} }

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return io.WriteString(w, sprintf(format, a...))
}

func Fprint(w io.Writer, a ...any) (int, error) { return io.WriteString(w, sprint(a...)) }

func Printf(format string, a ...any) (int, error) { return Fprintf(DefaultOutput, format, a...) }
func Print(a ...any) (int, error)                 { return Fprint(DefaultOutput, a...) }
