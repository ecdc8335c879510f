// Package fmtx is the fmt subset the firmware formats with. Host builds
// delegate to fmt; TinyGo builds use the small formatter in this file,
// which covers what the stick's screens and logs print:
//
//	%s %q %d %x %X %t %f %v %%
//
// with an optional '-' or '0' flag, width, and precision for %s and %f.
package fmtx

import (
	"unicode/utf8"

	"stickhal/x/strconvx"
)

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

type builder struct{ buf []byte }

func (b *builder) byte(c byte)  { b.buf = append(b.buf, c) }
func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

// directive is one parsed %-verb with its flags.
type directive struct {
	left, zero bool
	width      int
	prec       int
	hasPrec    bool
}

// pad writes s into width, right-aligned unless left is set. Zero padding
// goes after a leading minus sign.
func (b *builder) pad(s string, sp directive, numeric bool) {
	n := sp.width - utf8.RuneCountInString(s)
	if n <= 0 {
		b.str(s)
		return
	}
	switch {
	case sp.left:
		b.str(s)
		for ; n > 0; n-- {
			b.byte(' ')
		}
	case sp.zero && numeric:
		if len(s) > 0 && s[0] == '-' {
			b.byte('-')
			s = s[1:]
		}
		for ; n > 0; n-- {
			b.byte('0')
		}
		b.str(s)
	default:
		for ; n > 0; n-- {
			b.byte(' ')
		}
		b.str(s)
	}
}

func sprintf(format string, args ...any) string {
	var b builder
	b.format(format, args...)
	return string(b.buf)
}

func sprint(args ...any) string {
	var b builder
	for i, v := range args {
		if i > 0 {
			b.byte(' ')
		}
		b.str(value(v, directive{}))
	}
	return string(b.buf)
}

func (b *builder) format(format string, args ...any) {
	ai := 0
	for i := 0; i < len(format); {
		c := format[i]
		if c != '%' {
			b.byte(c)
			i++
			continue
		}
		i++
		if i < len(format) && format[i] == '%' {
			b.byte('%')
			i++
			continue
		}

		var sp directive
		for ; i < len(format); i++ {
			if format[i] == '-' {
				sp.left = true
			} else if format[i] == '0' {
				sp.zero = true
			} else {
				break
			}
		}
		i = parseNum(format, i, &sp.width)
		if i < len(format) && format[i] == '.' {
			sp.hasPrec = true
			i = parseNum(format, i+1, &sp.prec)
		}
		if i >= len(format) {
			b.str("%!(NOVERB)")
			return
		}
		verb := format[i]
		i++
		if ai >= len(args) {
			b.str("%!")
			b.byte(verb)
			b.str("(MISSING)")
			continue
		}
		arg := args[ai]
		ai++
		b.verb(verb, arg, sp)
	}
}

func (b *builder) verb(verb byte, arg any, sp directive) {
	switch verb {
	case 's', 'q':
		s, ok := asString(arg)
		if !ok {
			b.pad(value(arg, sp), sp, false)
			return
		}
		if sp.hasPrec && sp.prec < len(s) {
			s = s[:sp.prec]
		}
		if verb == 'q' {
			s = quote(s)
		}
		b.pad(s, sp, false)
	case 'd':
		if u, ok := asUint(arg); ok {
			b.pad(strconvx.FormatUint(u, 10), sp, true)
			return
		}
		b.pad(strconvx.FormatInt(asInt(arg), 10), sp, true)
	case 'x', 'X':
		var h string
		if u, ok := asUint(arg); ok {
			h = strconvx.FormatUint(u, 16)
		} else {
			h = strconvx.FormatInt(asInt(arg), 16)
		}
		if verb == 'X' {
			h = upper(h)
		}
		b.pad(h, sp, true)
	case 'f':
		prec := 6
		if sp.hasPrec {
			prec = sp.prec
		}
		f, ok := asFloat(arg)
		if !ok {
			b.str("%!f(BADTYPE)")
			return
		}
		b.pad(strconvx.FormatFloat(f, 'f', prec, 64), sp, true)
	case 't':
		v, _ := arg.(bool)
		b.pad(boolStr(v), sp, false)
	case 'v':
		b.pad(value(arg, sp), sp, false)
	default:
		b.byte('%')
		b.byte(verb)
	}
}

// value is the %v rendering.
func value(v any, sp directive) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return boolStr(x)
	case error:
		return x.Error()
	case interface{ String() string }:
		return x.String()
	case float32:
		return strconvx.FormatFloat(float64(x), 'f', precOr(sp, 6), 32)
	case float64:
		return strconvx.FormatFloat(x, 'f', precOr(sp, 6), 64)
	}
	if u, ok := asUint(v); ok {
		return strconvx.FormatUint(u, 10)
	}
	if _, ok := asFloat(v); !ok {
		return "<?>"
	}
	return strconvx.FormatInt(asInt(v), 10)
}

func precOr(sp directive, def int) int {
	if sp.hasPrec {
		return sp.prec
	}
	return def
}

func boolStr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case error:
		return x.Error(), true
	case interface{ String() string }:
		return x.String(), true
	}
	return "", false
}

func asUint(v any) (uint64, bool) {
	switch t := v.(type) {
	case uint:
		return uint64(t), true
	case uint8:
		return uint64(t), true
	case uint16:
		return uint64(t), true
	case uint32:
		return uint64(t), true
	case uint64:
		return t, true
	case uintptr:
		return uint64(t), true
	}
	return 0, false
}

func asInt(v any) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case float32:
		return int64(t)
	case float64:
		return int64(t)
	}
	return 0
}

// asFloat accepts any numeric kind.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case int, int8, int16, int32, int64:
		return float64(asInt(t)), true
	}
	if u, ok := asUint(v); ok {
		return float64(u), true
	}
	return 0, false
}

func upper(h string) string {
	out := []byte(h)
	for i, c := range out {
		if 'a' <= c && c <= 'f' {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}

func parseNum(s string, i int, out *int) int {
	n := 0
	start := i
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i > start {
		*out = n
	}
	return i
}

// quote escapes backslash, quotes and the common control characters.
func quote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			out = append(out, '\\', s[i])
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			out = append(out, s[i])
		}
	}
	out = append(out, '"')
	return string(out)
}
