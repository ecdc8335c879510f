//go:build tinygo

package strconvx

func Itoa(i int) string                                     { return itoa(i) }
func Atoi(s string) (int, error)                            { return atoi(s) }
func FormatInt(i int64, base int) string                    { return formatInt(i, base) }
func FormatUint(u uint64, base int) string                  { return formatUintBase(u, base) }
func ParseInt(s string, base, bitSize int) (int64, error)   { return parseInt(s, base, bitSize) }
func ParseUint(s string, base, bitSize int) (uint64, error) { return parseUint(s, base, bitSize) }
func FormatFloat(f float64, fmt byte, prec, bitSize int) string {
	return formatFloat(f, fmt, prec, bitSize)
}
func ParseFloat(s string, bitSize int) (float64, error) { return parseFloat(s, bitSize) }
