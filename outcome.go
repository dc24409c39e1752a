package calc

import "math/big"

// Outcome is the result of one attempt to evaluate calculator input. Exactly
// one of Err and Value is set.
type Outcome struct {
	// Value is the numeric result.
	Value *big.Float
	// Text is Value as formatted by Normalize.
	Text string
	// Err is the reason evaluation failed.
	Err error
}

// OK reports whether evaluation succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Kind classifies the outcome's error.
func (o Outcome) Kind() ErrorKind {
	return KindOf(o.Err)
}

// Evaluate canonicalizes, parses, evaluates and normalizes calculator input.
// The returned Value belongs to the caller.
func (ctx *Context) Evaluate(src string, opts ...ParseOption) Outcome {
	a, err := ParseString(Canonicalize(src), opts...)
	if err != nil {
		return Outcome{Err: err}
	}
	r := ctx.Eval(a)
	if r == nil {
		return Outcome{Err: ctx.Err()}
	}
	text, err := Normalize(r)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Value: new(big.Float).Copy(r), Text: text}
}
