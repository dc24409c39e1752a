// Package session holds the state of one calculator: the input being typed
// and the history of results. A presentation layer drives a Session with the
// same operations as keypad buttons and shows what they return.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/logging"
)

// ErrorText is displayed in place of a result when evaluation fails.
const ErrorText = "error"

// ErrUnsupported is returned by ApplySmartFunction for names that aren't
// smart functions.
var ErrUnsupported = errors.New("unsupported smart function")

// SmartFunctions lists the function names ApplySmartFunction accepts.
var SmartFunctions = []string{"sqrt", "cbrt"}

// afterName holds the runes after which a smart function inserts its name
// rather than applying to the current input.
const afterName = "+-*/%(["

// HistoryEntry records one successful calculation.
type HistoryEntry struct {
	// Expr is the input that was evaluated, e.g. "2+2" or "sqrt(9)".
	Expr string
	// Result is the normalized result.
	Result string
}

func (h HistoryEntry) String() string {
	return h.Expr + " = " + h.Result
}

// Session is a calculator's input buffer and history. It is not safe for
// concurrent use.
type Session struct {
	id      string
	buf     []rune
	history []HistoryEntry
	ctx     *calc.Context
	table   *calc.Table
	log     *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for evaluation events. The default discards
// everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithContext sets the evaluation context, e.g. to change precision or angle
// unit.
func WithContext(ctx *calc.Context) Option {
	return func(s *Session) {
		s.ctx = ctx
	}
}

// WithTable sets the functions and constants input may use.
func WithTable(t *calc.Table) Option {
	return func(s *Session) {
		s.table = t
	}
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		id:    uuid.NewString(),
		ctx:   calc.NewContext(),
		table: calc.DefaultTable(),
		log:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.id)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Buffer returns the current input.
func (s *Session) Buffer() string {
	return string(s.buf)
}

// Append adds text to the end of the input and returns the new input. Any
// text is accepted; it is checked only on evaluation.
func (s *Session) Append(token string) string {
	s.buf = append(s.buf, []rune(token)...)
	return s.Buffer()
}

// DeleteLast removes the last character of the input and returns the new
// input. It does nothing if the input is empty.
func (s *Session) DeleteLast() string {
	if len(s.buf) > 0 {
		s.buf = s.buf[:len(s.buf)-1]
	}
	return s.Buffer()
}

// Clear empties the input. History is kept.
func (s *Session) Clear() {
	s.buf = s.buf[:0]
}

// History returns a copy of the results recorded so far, oldest first.
func (s *Session) History() []HistoryEntry {
	return append([]HistoryEntry(nil), s.history...)
}

// Evaluate evaluates the input. On success, the input becomes the result so
// that further operations continue from it, and the returned entry has been
// added to the history. On failure, the result is ErrorText with no entry, and
// the input is emptied.
func (s *Session) Evaluate() (string, *HistoryEntry) {
	expr := s.Buffer()
	out := s.ctx.Evaluate(expr, calc.WithTable(s.table))
	if !out.OK() {
		s.log.Debug("evaluation failed", "expr", expr, "kind", out.Kind().String(), "error", out.Err)
		s.buf = s.buf[:0]
		return ErrorText, nil
	}
	h := s.record(expr, out.Text)
	s.log.Debug("evaluated", "expr", expr, "result", out.Text)
	return out.Text, &h
}

// ApplySmartFunction handles a smart function key. If the input is empty or
// ends in an operator or open bracket, the function's name is appended so the
// user can type its operand next. Otherwise the input is evaluated and the
// function applied to the result, which replaces the input and is recorded in
// the history as e.g. "sqrt(9) = 3". If that fails for any reason, the name is
// appended instead. The returned string is the new input.
func (s *Session) ApplySmartFunction(name string) (string, *HistoryEntry, error) {
	if !isSmart(name) {
		return s.Buffer(), nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
	if s.insertsName() {
		return s.Append(name), nil, nil
	}
	expr := s.Buffer()
	call, result, err := s.apply(name, expr)
	if err != nil {
		s.log.Debug("smart function fell back to text", "func", name, "expr", expr, "kind", calc.KindOf(err).String(), "error", err)
		return s.Append(name), nil, nil
	}
	h := s.record(call, result)
	s.log.Debug("applied smart function", "func", name, "expr", expr, "result", result)
	return result, &h, nil
}

// apply evaluates expr and applies the function name to the result. It
// returns the call as written in the history and the result text.
func (s *Session) apply(name, expr string) (call, result string, err error) {
	out := s.ctx.Evaluate(expr, calc.WithTable(s.table))
	if !out.OK() {
		return "", "", out.Err
	}
	r, err := s.table.Call(s.ctx, name, out.Value)
	if err != nil {
		return "", "", err
	}
	result, err = calc.Normalize(r)
	if err != nil {
		return "", "", err
	}
	return name + "(" + out.Text + ")", result, nil
}

// insertsName reports whether a smart function should insert its name.
func (s *Session) insertsName() bool {
	if len(s.buf) == 0 {
		return true
	}
	return strings.ContainsRune(afterName, s.buf[len(s.buf)-1])
}

// record appends a history entry and replaces the input with the result.
func (s *Session) record(expr, result string) HistoryEntry {
	h := HistoryEntry{Expr: expr, Result: result}
	s.history = append(s.history, h)
	s.buf = append(s.buf[:0], []rune(result)...)
	return h
}

func isSmart(name string) bool {
	for _, f := range SmartFunctions {
		if f == name {
			return true
		}
	}
	return false
}
