package calc

import (
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// MaxExp is the largest binary exponent of any value the evaluator produces.
// Results beyond it are reported as a *RangeError.
const MaxExp = 1 << 14

// AngleUnit selects how trigonometric functions interpret their arguments.
type AngleUnit int8

const (
	// Degrees is the default angle unit.
	Degrees AngleUnit = iota
	Radians
)

func (a AngleUnit) String() string {
	switch a {
	case Degrees:
		return "deg"
	case Radians:
		return "rad"
	default:
		return "AngleUnit(" + strconv.Itoa(int(a)) + ")"
	}
}

// Context is a context for evaluating expressions. It is not safe to use a
// Context concurrently.
type Context struct {
	stack []*big.Float
	nums  map[string]*big.Float
	prec  uint
	angle AngleUnit
	err   error
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	precopt  uint
	angleopt AngleUnit
)

func (precopt) ctxOption()  {}
func (angleopt) ctxOption() {}

// Prec sets the precision of calculations.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// Angle sets the unit of trigonometric function arguments.
func Angle(unit AngleUnit) ContextOption {
	return angleopt(unit)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is 64. If no angle unit is given, the default is Degrees.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{nums: make(map[string]*big.Float), prec: 64}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. an argument to a function is outside the function's domain, then the
// result is nil and ctx.Err returns the error.
func (ctx *Context) Eval(e *Expr) *big.Float {
	// The previous result may still be in use by the caller, so don't reuse
	// it. Anything else left over from a failed evaluation can be reused.
	if len(ctx.stack) > 0 {
		ctx.stack[0] = nil
	}
	ctx.stack = ctx.stack[:0]
	ctx.err = nil
	err := e.n.eval(ctx)
	ctx.err = err
	if err != nil {
		return nil
	}
	return ctx.Result()
}

// Result returns the result obtained after evaluating an expression. Panics if
// ctx has not been used to evaluate an expression. Returns nil if an error
// occurred during evaluation.
func (ctx *Context) Result() *big.Float {
	if ctx.err != nil {
		return nil
	}
	switch len(ctx.stack) {
	case 0:
		panic("calc: Context.Result called before evaluating any expression")
	case 1:
		return ctx.stack[0]
	default:
		panic("calc: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
}

// Err returns the error that occurred while evaluating the last expression
// with ctx, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Angle returns the unit of trigonometric function arguments in the context.
func (ctx *Context) Angle() AngleUnit {
	return ctx.angle
}

// Clone creates a copy of a context and applies options to it. The returned
// context has no Result and is safe to use to evaluate an expression.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]*big.Float, 0, cap(ctx.stack)),
		nums:  make(map[string]*big.Float, len(ctx.nums)),
		prec:  ctx.prec,
		angle: ctx.angle,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case precopt:
			n.prec = uint(opt)
		case angleopt:
			n.angle = AngleUnit(opt)
		default:
			panic("calc: unknown option type")
		}
	}
	if n.prec == 0 {
		n.prec = 64
	}
	// Copy numbers only if the new precision is no higher than the old, so
	// that we always use the precision we need.
	if n.prec <= ctx.prec {
		for k, v := range ctx.nums {
			p := n.prec
			if v.IsInt() && v.Prec() > p {
				// Keep integer literals exact.
				p = v.Prec()
			}
			n.nums[k] = new(big.Float).SetPrec(p).Set(v)
		}
	}
	return &n
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float))
	}
	// Reused values may have grown their precision for an exact integer.
	return ctx.stack[len(ctx.stack)-1].SetPrec(ctx.prec)
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// maxNums is the most literals a Context keeps parsed.
const maxNums = 256

// num gets a possibly cached number from its text. Integer literals are
// exact, like integer results, so that a result typed back in has the value
// it was displayed with.
func (ctx *Context) num(s string) (*big.Float, error) {
	if r := ctx.nums[s]; r != nil {
		return r, nil
	}
	r, err := ctx.parseNum(s)
	if err != nil {
		return nil, err
	}
	if err := bounded(r, s); err != nil {
		return nil, err
	}
	if len(ctx.nums) >= maxNums {
		clear(ctx.nums)
	}
	ctx.nums[s] = r
	return r, nil
}

func (ctx *Context) parseNum(s string) (*big.Float, error) {
	if isDigits(s) {
		n, _ := new(big.Int).SetString(s, 10)
		r := new(big.Float).SetPrec(0).SetInt(n)
		if r.Prec() < ctx.prec {
			r.SetPrec(ctx.prec)
		}
		return r, nil
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 10)
	switch {
	case err == nil:
		return r, nil
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		return nil, &RangeError{Op: s}
	default:
		panic("calc: invalid number: " + s + " (" + err.Error() + ")")
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || '9' < s[i] {
			return false
		}
	}
	return s != ""
}

// bounded checks that v is within the evaluator's range.
func bounded(v *big.Float, op string) error {
	if v.IsInf() || v.MantExp(nil) > MaxExp {
		return &RangeError{Op: op}
	}
	return nil
}

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		v, err := ctx.num(n.name)
		if err != nil {
			return err
		}
		r := ctx.push()
		if v.Prec() > r.Prec() {
			r.SetPrec(v.Prec())
		}
		r.Set(v)
	case nodeCall:
		r := ctx.push()
		k := len(ctx.stack)
		for l := n.right; l != nil; l = l.right {
			if err := l.left.eval(ctx); err != nil {
				return err
			}
		}
		invoc := ctx.stack[k:len(ctx.stack):len(ctx.stack)]
		if err := n.fn.Call(ctx, invoc, r); err != nil {
			return named(err, n.name)
		}
		if err := bounded(r, n.name); err != nil {
			return err
		}
		ctx.stack = ctx.stack[:k]
	case nodeArg:
		panic("calc: eval on nodeArg")
	case nodeNeg:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
	case nodeNop:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		if err := binary(n.kind, l, r); err != nil {
			return err
		}
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
	return nil
}

// binary sets l to the result of applying a binary operator to l and r.
func binary(op nodeKind, l, r *big.Float) error {
	var name string
	exact(op, l, r)
	switch op {
	case nodeAdd:
		name = "+"
		l.Add(l, r)
	case nodeSub:
		name = "-"
		l.Sub(l, r)
	case nodeMul:
		name = "*"
		l.Mul(l, r)
	case nodeDiv:
		name = "/"
		if r.Sign() == 0 {
			return &DivisionError{Op: name}
		}
		l.Quo(l, r)
	case nodeMod:
		name = "%"
		if r.Sign() == 0 {
			return &DivisionError{Op: name}
		}
		rem(l, l, r)
	case nodePow:
		name = "**"
		if err := pow(l, l, r); err != nil {
			return err
		}
	default:
		panic("calc: invalid binary operator " + op.String())
	}
	return bounded(l, name)
}

// exact grows l's precision so that adding, subtracting or multiplying two
// integers gives the exact integer, as integer powers do.
func exact(op nodeKind, l, r *big.Float) {
	if !l.IsInt() || !r.IsInt() {
		return
	}
	le, re := l.MantExp(nil), r.MantExp(nil)
	var need int
	switch op {
	case nodeAdd, nodeSub:
		need = max(le, re) + 1
	case nodeMul:
		need = le + re
	default:
		return
	}
	if need > int(l.Prec()) {
		l.SetPrec(uint(need))
	}
}

// rem sets z to the remainder of x/y truncated toward zero, so the result has
// the sign of x. The remainder is computed exactly and then rounded to z's
// precision. y must not be zero.
func rem(z, x, y *big.Float) *big.Float {
	xr, _ := x.Rat(nil)
	yr, _ := y.Rat(nil)
	q := new(big.Rat).Quo(xr, yr)
	// Truncate the quotient toward zero.
	qi := new(big.Int).Quo(q.Num(), q.Denom())
	q.SetInt(qi)
	q.Mul(q, yr)
	xr.Sub(xr, q)
	return z.SetRat(xr)
}

// pow sets z to x**y. Integer powers of integers are exact, growing z's
// precision as needed.
func pow(z, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		z.SetInt64(1)
		return nil
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return &DivisionError{Op: "**"}
		}
		z.SetInt64(0)
		return nil
	}
	neg := false
	if x.Signbit() {
		if !y.IsInt() {
			return &DomainError{X: new(big.Float).Copy(x), Func: "**"}
		}
		yi, _ := y.Int(nil)
		neg = yi.Bit(0) == 1
	}
	ax := new(big.Float).Abs(x)
	if ax.Cmp(big.NewFloat(1)) == 0 {
		z.SetInt64(1)
		if neg {
			z.Neg(z)
		}
		return nil
	}
	// Estimate log2 of the result to avoid computing absurd values.
	var mant big.Float
	e := x.MantExp(&mant)
	m, _ := mant.Abs(&mant).Float64()
	yf, _ := y.Float64()
	est := yf * (float64(e) + math.Log2(m))
	switch {
	case est > MaxExp || math.IsNaN(est):
		return &RangeError{Op: "**"}
	case est < -MaxExp:
		// Too small to matter.
		z.SetInt64(0)
		return nil
	}
	switch {
	case x.IsInt() && y.IsInt():
		xi, _ := ax.Int(nil)
		yi, _ := new(big.Float).Abs(y).Int(nil)
		p := xi.Exp(xi, yi, nil)
		if y.Sign() > 0 {
			prec := z.Prec()
			z.SetPrec(0).SetInt(p)
			if z.Prec() < prec {
				z.SetPrec(prec)
			}
		} else {
			d := new(big.Float).SetPrec(z.Prec()).SetInt(p)
			z.Quo(z.SetInt64(1), d)
		}
	default:
		bigfloat.Pow(z, ax, y)
	}
	if neg {
		z.Neg(z)
	}
	return nil
}

// Eval is a shortcut to parse an expression and return its result using the
// default functions. The input is not canonicalized.
func Eval(src io.RuneScanner, opts ...ContextOption) (*big.Float, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src)
	if err != nil {
		return nil, err
	}
	ctx.Eval(a)
	return ctx.Result(), ctx.Err()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	return Eval(strings.NewReader(src), opts...)
}
