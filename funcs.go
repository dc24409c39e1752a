package calc

import (
	"errors"
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function from reals to reals, or a constant. The function should
// set r to its result and should not use the value of r otherwise.
type Func interface {
	// Call evaluates the function. The function arguments are passed in invoc,
	// which has a length for which CanCall returned true. The function must
	// set r to its result and should not use the value of r otherwise. Call
	// may modify the elements of invoc.
	Call(ctx *Context, invoc []*big.Float, r *big.Float) error

	// CanCall returns whether the function can be called with n arguments.
	// This controls how the expression parser handles instances of this
	// function:
	//
	// 	1.	If CanCall(0), the name is a constant. It must not be followed by
	//		a bracketed list.
	//
	// 	2.	Otherwise, the name must be followed by a bracketed list of n
	//		expressions such that CanCall(n).
	CanCall(n int) bool
}

// MaxFactorial is the largest operand fact accepts.
const MaxFactorial = 1000

// Table is an immutable set of named functions and constants. It is the only
// namespace an expression can refer to. A Table is safe for concurrent use.
type Table struct {
	funcs map[string]Func
}

// NewTable creates a table from a map of names to functions. The map is
// copied, and nil entries are dropped.
func NewTable(funcs map[string]Func) *Table {
	t := Table{funcs: make(map[string]Func, len(funcs))}
	for k, v := range funcs {
		if v != nil {
			t.funcs[k] = v
		}
	}
	return &t
}

// Lookup returns the function bound to name, or nil if there is none.
func (t *Table) Lookup(name string) Func {
	return t.funcs[name]
}

// Names returns the sorted names in the table.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.funcs))
	for k := range t.funcs {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// Call applies the named one-argument function to x outside of any
// expression. x is not modified.
func (t *Table) Call(ctx *Context, name string, x *big.Float) (*big.Float, error) {
	fn := t.Lookup(name)
	if fn == nil {
		return nil, &NameError{Name: name}
	}
	if fn.CanCall(0) || !fn.CanCall(1) {
		return nil, &CallError{Func: name, Len: 1}
	}
	in := new(big.Float).SetPrec(max(ctx.prec, x.Prec())).Set(x)
	r := new(big.Float).SetPrec(ctx.prec)
	if err := fn.Call(ctx, []*big.Float{in}, r); err != nil {
		return nil, named(err, name)
	}
	if err := bounded(r, name); err != nil {
		return nil, err
	}
	return r, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// DefaultTable returns the calculator's functions and constants:
//
//	sin cos tan   trigonometry, in the context's angle unit
//	log           base 10 logarithm
//	ln            natural logarithm
//	exp           e**x
//	sqrt cbrt     square and real cube roots
//	fact          factorial of an integer in [0, MaxFactorial]
//	abs           absolute value
//	pi e          constants
func DefaultTable() *Table {
	return defaultTable
}

var defaultTable = NewTable(map[string]Func{
	"sin":  Trig(math.Sin),
	"cos":  Trig(math.Cos),
	"tan":  Trig(math.Tan),
	"log":  Monadic(log10, Positive),
	"ln":   Monadic(bigfloat.Log, Positive),
	"exp":  Monadic(exp),
	"sqrt": Monadic((*big.Float).Sqrt, NonNegative),
	"cbrt": Monadic(Float64(math.Cbrt), InFloat64),
	"fact": Monadic(factorial, Factorial),
	"abs":  Monadic((*big.Float).Abs),

	// constants
	"pi": Niladic(bigfloat.Pi),
	"e": Niladic(func(out *big.Float) *big.Float {
		var one big.Float
		one.SetFloat64(1)
		return bigfloat.Exp(out, &one)
	}),
})

func log10(out, in *big.Float) *big.Float {
	bigfloat.Log(out, in)
	ten := new(big.Float).SetPrec(out.Prec()).SetInt64(10)
	bigfloat.Log(ten, ten)
	return out.Quo(out, ten)
}

// expLimit is roughly the natural log of the largest value the evaluator
// allows.
var expLimit = float64(MaxExp) * math.Ln2

func exp(out, in *big.Float) *big.Float {
	x, _ := in.Float64()
	switch {
	case x > expLimit:
		// Too large. Let the bounds check report it.
		return out.SetInf(false)
	case x < -expLimit:
		// Too small to matter.
		return out.SetInt64(0)
	}
	return bigfloat.Exp(out, in)
}

func factorial(out, in *big.Float) *big.Float {
	n, _ := in.Int64()
	f := new(big.Int).MulRange(1, n)
	// Precision 0 makes SetInt use as many bits as the result needs.
	return out.SetPrec(0).SetInt(f)
}

// Domain checks whether a function's argument is one it accepts. It returns a
// *DomainError or a *RangeError if not.
type Domain func(x *big.Float) error

// Positive accepts x > 0.
func Positive(x *big.Float) error {
	if x.Sign() <= 0 {
		return &DomainError{X: new(big.Float).Copy(x)}
	}
	return nil
}

// NonNegative accepts x >= 0.
func NonNegative(x *big.Float) error {
	if x.Sign() < 0 {
		return &DomainError{X: new(big.Float).Copy(x)}
	}
	return nil
}

// InFloat64 accepts x with a magnitude that fits in a float64.
func InFloat64(x *big.Float) error {
	if f, _ := x.Float64(); math.IsInf(f, 0) {
		return &RangeError{Op: "float64"}
	}
	return nil
}

// Factorial accepts integers 0 <= x <= MaxFactorial.
func Factorial(x *big.Float) error {
	if x.Sign() < 0 || !x.IsInt() {
		return &DomainError{X: new(big.Float).Copy(x)}
	}
	if x.Cmp(big.NewFloat(MaxFactorial)) > 0 {
		return &RangeError{Op: "fact"}
	}
	return nil
}

type monadic struct {
	f      func(out, in *big.Float) *big.Float
	domain []Domain
}

func (m monadic) Call(ctx *Context, invoc []*big.Float, r *big.Float) (err error) {
	in := invoc[0]
	for _, d := range m.domain {
		if err := d(in); err != nil {
			return err
		}
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		nan, ok := r.(big.ErrNaN)
		if !ok {
			panic(r)
		}
		err = &DomainError{X: new(big.Float).Copy(in), Reason: nan.Error()}
	}()
	r.SetPrec(ctx.Prec())
	m.f(r, in)
	return nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. f must set out to its
// result, to the precision of out; its return value is always ignored. Each
// domain check runs before f. If f is called on an argument outside its
// domain anyway, it should panic with an error of type big.ErrNaN.
func Monadic(f func(out, in *big.Float) *big.Float, domain ...Domain) Func {
	return monadic{f, domain}
}

type niladic struct {
	f func(out *big.Float) *big.Float
}

func (n niladic) Call(ctx *Context, invoc []*big.Float, r *big.Float) (err error) {
	r.SetPrec(ctx.Prec())
	n.f(r)
	return nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Func. f must set out to its result; its return
// value is always ignored. Unlike Monadic, the wrapped function is expected
// never to panic.
func Niladic(f func(out *big.Float) *big.Float) Func {
	return niladic{f}
}

// Float64 adapts a float64 function for use with Monadic. The argument is
// rounded to a float64; pair it with InFloat64 to reject arguments that don't
// fit.
func Float64(f func(float64) float64) func(out, in *big.Float) *big.Float {
	return func(out, in *big.Float) *big.Float {
		x, _ := in.Float64()
		y := f(x)
		if math.IsNaN(y) {
			panic(big.ErrNaN{})
		}
		return out.SetFloat64(y)
	}
}

type trig struct {
	f func(float64) float64
}

func (t trig) Call(ctx *Context, invoc []*big.Float, r *big.Float) error {
	in := invoc[0]
	if err := InFloat64(in); err != nil {
		return err
	}
	x, _ := in.Float64()
	if ctx.Angle() == Degrees {
		x *= degToRad
	}
	y := t.f(x)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return &DomainError{X: new(big.Float).Copy(in)}
	}
	r.SetPrec(ctx.Prec()).SetFloat64(y)
	return nil
}

func (trig) CanCall(n int) bool {
	return n == 1
}

const degToRad = math.Pi / 180

// Trig wraps a trigonometric function of radians into a Func that converts
// its argument according to the evaluating context's angle unit.
func Trig(f func(float64) float64) Func {
	return trig{f}
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Func is a name identifying the function.
	Func string
	// Reason optionally describes the violation.
	Reason string
}

func (err *DomainError) Error() string {
	r := "outside domain"
	if err.X != nil {
		r = err.X.String() + " " + r
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Reason != "" {
		r += ": " + err.Reason
	}
	return r
}

// DivisionError is an error returned for division, remainder or a negative
// power with a zero divisor.
type DivisionError struct {
	// Op is the operator that divided.
	Op string
}

func (err *DivisionError) Error() string {
	return "division by zero in " + strconv.Quote(err.Op)
}

// RangeError is an error returned when a value is too large in magnitude for
// the evaluator, or for a function's argument.
type RangeError struct {
	// Op names the operator or function that produced the value.
	Op string
}

func (err *RangeError) Error() string {
	return "value out of range in " + strconv.Quote(err.Op)
}

// named fills in the function name of a domain or range error that doesn't
// have one.
func named(err error, name string) error {
	var de *DomainError
	if errors.As(err, &de) && de.Func == "" {
		de.Func = name
	}
	var re *RangeError
	if errors.As(err, &re) && re.Op == "float64" {
		re.Op = name
	}
	return err
}
