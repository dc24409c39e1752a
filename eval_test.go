package calc_test

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"num", "1", 1},
		{"plus", "+4", 4},
		{"neg", "-4", -4},
		{"add", "4+5+6", 4 + 5 + 6},
		{"sub", "4-5-6", 4 - 5 - 6},
		{"mul", "4*5*6", 4 * 5 * 6},
		{"div", "4/5/6", 4.0 / 5.0 / 6.0},
		{"prec", "1+2*3", 7},
		{"group", "(1+2)*3", 9},
		{"pow", "2**3", 8},
		{"pow-right", "2**3**2", 512},
		{"pow-group", "(2**3)**2", 64},
		{"neg-pow", "-2**2", -4},
		{"pow-neg", "2**-1", 0.5},
		{"pow-real", "4**0.5", 2},
		{"pow-neg-base", "(-2)**3", -8},
		{"pow-zero", "0**0", 1},
		{"pow-tiny", "10**-10000", 0},
		{"mod", "7%3", 1},
		{"mod-neg-dividend", "-7%3", -1},
		{"mod-neg-divisor", "7%-3", 1},
		{"mod-real", "7.5%2", 1.5},
		{"pi", "pi", math.Pi},
		{"e", "e", math.E},
		{"exp", "exp(1)", math.E},
		{"exp-tiny", "exp(-100000)", 0},
		{"log", "log(1000)", 3},
		{"ln", "ln(e)", 1},
		{"sqrt", "sqrt(16)", 4},
		{"cbrt", "cbrt(27)", 3},
		{"cbrt-neg", "cbrt(-8)", -2},
		{"fact", "fact(5)", 120},
		{"fact-zero", "fact(0)", 1},
		{"abs", "abs(-3)", 3},
		{"sin", "sin(30)", 0.5},
		{"cos", "cos(60)", 0.5},
		{"tan", "tan(45)", 1},
		{"nested", "sqrt(abs(-16))+fact(3)", 10},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.EvalString(c.src)
			if err != nil {
				t.Fatalf("%q failed: %v", c.src, err)
			}
			if got, _ := r.Float64(); math.Abs(got-c.r) > 1e-12 {
				t.Errorf("%q: want %g, got %g", c.src, c.r, got)
			}
		})
	}
}

func TestEvalRadians(t *testing.T) {
	cases := []struct {
		src string
		r   float64
	}{
		{"sin(pi/2)", 1},
		{"cos(pi)", -1},
		{"tan(0)", 0},
	}
	for _, c := range cases {
		r, err := calc.EvalString(c.src, calc.Angle(calc.Radians))
		if err != nil {
			t.Errorf("%q failed: %v", c.src, err)
			continue
		}
		if got, _ := r.Float64(); math.Abs(got-c.r) > 1e-12 {
			t.Errorf("%q: want %g, got %g", c.src, c.r, got)
		}
	}
}

func TestEvalExact(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"fact(20)", "2432902008176640000"},
		{"2**100", "1267650600228229401496703205376"},
		{"3**-2*9", "1"},
		{"2**100+1-2**100", "1"},
		{"1+2**100-2**100", "1"},
		{"1267650600228229401496703205377-2**100", "1"},
		{"-1267650600228229401496703205377+2**100", "-1"},
		{"2**70*2**70/2**139", "2"},
		{"36893488147419103232*36893488147419103232", "1361129467683753853853498429727072845824"},
	}
	for _, c := range cases {
		r, err := calc.EvalString(c.src)
		if err != nil {
			t.Errorf("%q failed: %v", c.src, err)
			continue
		}
		if got := r.Text('f', 0); got != c.want {
			t.Errorf("%q: want %s, got %s", c.src, c.want, got)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	var (
		dom *calc.DomainError
		div *calc.DivisionError
		rng *calc.RangeError
	)
	cases := []struct {
		name   string
		src    string
		target any
	}{
		{"div-zero", "1/0", &div},
		{"div-zero-expr", "1/(2-2)", &div},
		{"mod-zero", "1%0", &div},
		{"pow-zero", "0**-1", &div},
		{"sqrt-neg", "sqrt(-1)", &dom},
		{"log-zero", "log(0)", &dom},
		{"ln-neg", "ln(-1)", &dom},
		{"fact-neg", "fact(-1)", &dom},
		{"fact-real", "fact(2.5)", &dom},
		{"neg-root", "(-8)**(1/3)", &dom},
		{"fact-big", "fact(1001)", &rng},
		{"pow-big", "10**10000", &rng},
		{"exp-big", "exp(100000)", &rng},
		{"literal-big", "1e99999", &rng},
		{"mul-big", "1e4000*1e4000", &rng},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.EvalString(c.src)
			if err == nil {
				t.Fatalf("%q: no error, got %v", c.src, r)
			}
			if r != nil {
				t.Errorf("%q: non-nil result %v with error", c.src, r)
			}
			if !errors.As(err, c.target) {
				t.Errorf("%q: wrong error type: %T %v", c.src, err, err)
			}
		})
	}
}

func TestDomainErrorNamesFunc(t *testing.T) {
	_, err := calc.EvalString("1+sqrt(-4)")
	var de *calc.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("want *DomainError, got %v", err)
	}
	if de.Func != "sqrt" {
		t.Errorf("wrong func: want sqrt, got %q", de.Func)
	}
	if de.X.Cmp(big.NewFloat(-4)) != 0 {
		t.Errorf("wrong argument: want -4, got %v", de.X)
	}
}

func TestContextReuse(t *testing.T) {
	ctx := calc.NewContext()
	good, err := calc.ParseString("1+2*3")
	if err != nil {
		t.Fatal(err)
	}
	bad, err := calc.ParseString("1+2/0")
	if err != nil {
		t.Fatal(err)
	}
	first := ctx.Eval(good)
	if first == nil || first.Cmp(big.NewFloat(7)) != 0 {
		t.Fatalf("wrong first result: %v", first)
	}
	if r := ctx.Eval(bad); r != nil || ctx.Err() == nil {
		t.Fatalf("bad expression evaluated to %v, %v", r, ctx.Err())
	}
	second := ctx.Eval(good)
	if second == nil || second.Cmp(big.NewFloat(7)) != 0 {
		t.Errorf("wrong result after failure: %v", second)
	}
	if first.Cmp(big.NewFloat(7)) != 0 {
		t.Errorf("earlier result changed to %v", first)
	}
}

func TestContextOptions(t *testing.T) {
	ctx := calc.NewContext(calc.Prec(200), calc.Angle(calc.Radians))
	if ctx.Prec() != 200 || ctx.Angle() != calc.Radians {
		t.Errorf("options not applied: prec %d, angle %v", ctx.Prec(), ctx.Angle())
	}
	c := ctx.Clone(calc.Prec(0))
	if c.Prec() != 64 || c.Angle() != calc.Radians {
		t.Errorf("clone: prec %d, angle %v", c.Prec(), c.Angle())
	}
	if calc.NewContext().Angle() != calc.Degrees {
		t.Error("default angle unit isn't degrees")
	}
	r, err := calc.Eval(strings.NewReader("1/3"), calc.Prec(200))
	if err != nil {
		t.Fatal(err)
	}
	if r.Prec() != 200 {
		t.Errorf("result has precision %d", r.Prec())
	}
}

func BenchmarkEval(b *testing.B) {
	srcs := []string{"1+2*3", "sqrt(16)+fact(10)", "2**0.5*pi", "sin(30)+cos(60)"}
	for _, src := range srcs {
		src := src
		b.Run(src, func(b *testing.B) {
			a, err := calc.ParseString(src)
			if err != nil {
				b.Fatal(err)
			}
			ctx := calc.NewContext()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				ctx.Eval(a)
			}
		})
	}
}

func BenchmarkEvaluate(b *testing.B) {
	ctx := calc.NewContext()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ctx.Evaluate("√9 + 3! × 2^10 ÷ 7")
	}
}
