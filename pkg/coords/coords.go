// Package coords converts EXIF degree/minute/second GPS encodings to signed
// decimal degrees.
package coords

// Decimal returns deg + min/60 + sec/3600, negated when ref is "S" or "W".
//
// Any other reference, including an empty or malformed one, is treated as
// N/E and yields a positive value.
func Decimal(dms [3]float64, ref string) float64 {
	d := dms[0] + dms[1]/60 + dms[2]/3600
	if ref == "S" || ref == "W" {
		d = -d
	}
	return d
}

// FromValue converts a decoded GPS coordinate to a DMS triple.
//
// It accepts the numeric sequences produced by metadata decoders and
// reports false for anything that is not exactly three numbers.
func FromValue(v any) ([3]float64, bool) {
	var dms [3]float64
	switch vals := v.(type) {
	case [3]float64:
		return vals, true
	case []float64:
		if len(vals) != 3 {
			return dms, false
		}
		copy(dms[:], vals)
		return dms, true
	case []int64:
		if len(vals) != 3 {
			return dms, false
		}
		for i, n := range vals {
			dms[i] = float64(n)
		}
		return dms, true
	case []int:
		if len(vals) != 3 {
			return dms, false
		}
		for i, n := range vals {
			dms[i] = float64(n)
		}
		return dms, true
	}
	return dms, false
}
