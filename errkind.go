package calc

import (
	"errors"
	"strconv"
)

// ErrorKind classifies evaluation errors.
type ErrorKind int8

const (
	// KindNone is the kind of a nil error or of errors not produced by this
	// package.
	KindNone ErrorKind = iota
	// KindSyntax covers malformed literals, unknown symbols, bracket
	// mismatches, empty operands and missing operators.
	KindSyntax
	// KindUnknownIdentifier is a name absent from the table.
	KindUnknownIdentifier
	// KindArity is a function used with the wrong number of arguments.
	KindArity
	// KindDomain is a function or operator applied outside its domain.
	KindDomain
	// KindDivisionByZero is a zero divisor.
	KindDivisionByZero
	// KindOverflow is a value too large for the evaluator.
	KindOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSyntax:
		return "syntax"
	case KindUnknownIdentifier:
		return "unknown identifier"
	case KindArity:
		return "arity"
	case KindDomain:
		return "domain"
	case KindDivisionByZero:
		return "division by zero"
	case KindOverflow:
		return "overflow"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// KindOf classifies an error from parsing or evaluation.
func KindOf(err error) ErrorKind {
	var (
		lexErr  *LexError
		opErr   *OperatorError
		brErr   *BracketError
		sepErr  *SeparatorError
		emptErr *EmptyExpressionError
		termErr *TermError
		nameErr *NameError
		callErr *CallError
		domErr  *DomainError
		divErr  *DivisionError
		rngErr  *RangeError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &lexErr), errors.As(err, &opErr), errors.As(err, &brErr),
		errors.As(err, &sepErr), errors.As(err, &emptErr), errors.As(err, &termErr):
		return KindSyntax
	case errors.As(err, &nameErr):
		return KindUnknownIdentifier
	case errors.As(err, &callErr):
		return KindArity
	case errors.As(err, &domErr):
		return KindDomain
	case errors.As(err, &divErr):
		return KindDivisionByZero
	case errors.As(err, &rngErr):
		return KindOverflow
	default:
		return KindNone
	}
}
