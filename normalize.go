package calc

import (
	"math/big"
	"strings"
)

const (
	// Tolerance is how close a result must be to an integer to be shown as
	// that integer.
	Tolerance = 1e-12
	// Digits is the most decimal places other results are shown with.
	Digits = 12
)

var tolerance = big.NewFloat(Tolerance)

// Normalize formats a result for display. A value within Tolerance of an
// integer is written as that integer, with no decimal point. Anything else is
// written with the fewest digits that identify it at its own precision, or
// rounded to Digits decimal places when that needs more, and trailing zeros
// are removed. Infinities are a *RangeError.
func Normalize(x *big.Float) (string, error) {
	if x.IsInf() {
		return "", &RangeError{Op: "normalize"}
	}
	n := nearestInt(x)
	d := new(big.Float).SetPrec(x.Prec() + 64).SetInt(n)
	d.Sub(x, d)
	if d.Abs(d).Cmp(tolerance) < 0 {
		return n.String(), nil
	}
	s := x.Text('f', -1)
	if k := strings.IndexByte(s, '.'); k >= 0 && len(s)-k-1 > Digits {
		s = x.Text('f', Digits)
	}
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s, nil
}

// nearestInt rounds x to the nearest integer, with halves away from zero.
func nearestInt(x *big.Float) *big.Int {
	if x.IsInt() {
		n, _ := x.Int(nil)
		return n
	}
	// x has a fractional part, so its exponent is less than its precision
	// and adding a half needs at most a couple more bits.
	t := new(big.Float).SetPrec(x.Prec() + 64)
	half := big.NewFloat(0.5)
	if x.Signbit() {
		t.Sub(x, half)
	} else {
		t.Add(x, half)
	}
	n, _ := t.Int(nil)
	return n
}
