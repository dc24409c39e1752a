package calc_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		x    *big.Float
		want string
	}{
		{"zero", big.NewFloat(0), "0"},
		{"int", big.NewFloat(4), "4"},
		{"neg-int", big.NewFloat(-12), "-12"},
		{"real", big.NewFloat(2.5), "2.5"},
		{"neg-real", big.NewFloat(-0.5), "-0.5"},
		{"near-int", big.NewFloat(2.9999999999999), "3"},
		{"near-neg-int", big.NewFloat(-1 - 1e-13), "-1"},
		{"near-zero", big.NewFloat(-1e-13), "0"},
		{"not-near-int", big.NewFloat(2.999999999), "2.999999999"},
		{"third", new(big.Float).Quo(big.NewFloat(1), big.NewFloat(3)), "0.333333333333"},
		{"two-thirds", new(big.Float).Quo(big.NewFloat(2), big.NewFloat(3)), "0.666666666667"},
		{"small", big.NewFloat(1e-9), "0.000000001"},
		{"large-real", decimal("100000000.1"), "100000000.1"},
		{"large-long-real", decimal("123456789.123456789"), "123456789.123456789"},
		{"huge", new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 100)), "1267650600228229401496703205376"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			got, err := calc.Normalize(c.x)
			if err != nil {
				t.Fatalf("%v: %v", c.x, err)
			}
			if got != c.want {
				t.Errorf("%v: want %q, got %q", c.x, c.want, got)
			}
		})
	}
}

// decimal parses s at the default evaluation precision.
func decimal(s string) *big.Float {
	x, _, err := new(big.Float).SetPrec(64).Parse(s, 10)
	if err != nil {
		panic(err)
	}
	return x
}

func TestNormalizeInf(t *testing.T) {
	_, err := calc.Normalize(big.NewFloat(math.Inf(1)))
	var re *calc.RangeError
	if !errors.As(err, &re) {
		t.Errorf("want *RangeError, got %v", err)
	}
}
