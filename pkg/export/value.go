// Package export writes extraction tables as CSV, JSON, a pretty printed
// report or a SQLite table.
package export

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// FormatValue renders a field value as text.
//
// Strings are returned unchanged and nil becomes the empty string. Floats
// use the shortest representation that round-trips, with a ".0" suffix for
// integral values, and exponent notation below 1e-4 or from 1e16 upwards.
// Sequences render as "(a, b, c)". Byte blobs render as text when
// printable and as lowercase hex otherwise.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case []byte:
		return formatBytes(x)
	case []float64:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = formatFloat(f)
		}
		return formatTuple(parts)
	case [3]float64:
		return FormatValue(x[:])
	case []int64:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return formatTuple(parts)
	case []int:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = strconv.Itoa(n)
		}
		return formatTuple(parts)
	case []string:
		return formatTuple(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func formatTuple(parts []string) string {
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func formatBytes(b []byte) string {
	trimmed := strings.TrimRight(string(b), "\x00")
	for _, r := range trimmed {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return hex.EncodeToString(b)
		}
	}
	return trimmed
}
