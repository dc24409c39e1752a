package session

import (
	"bytes"
	"log/slog"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/logging"
)

func TestEvaluate(t *testing.T) {
	s := New()
	assert.Equal(t, "2+2", s.Append("2+2"))

	got, h := s.Evaluate()
	assert.Equal(t, "4", got)
	require.NotNil(t, h)
	assert.Equal(t, "2+2 = 4", h.String())
	assert.Equal(t, "4", s.Buffer())
	assert.Equal(t, []HistoryEntry{{Expr: "2+2", Result: "4"}}, s.History())

	// Input continues from the result.
	s.Append("*3")
	got, _ = s.Evaluate()
	assert.Equal(t, "12", got)
	assert.Len(t, s.History(), 2)
}

func TestEvaluateChainsWideResults(t *testing.T) {
	s := New()
	s.Append("2**100+1")
	got, _ := s.Evaluate()
	assert.Equal(t, "1267650600228229401496703205377", got)

	s.Append("-2**100")
	got, h := s.Evaluate()
	assert.Equal(t, "1", got)
	require.NotNil(t, h)
	assert.Equal(t, "1267650600228229401496703205377-2**100 = 1", h.String())
}

func TestEvaluateLargeDecimal(t *testing.T) {
	s := New()
	s.Append("100000000.1")
	got, h := s.Evaluate()
	assert.Equal(t, "100000000.1", got)
	require.NotNil(t, h)
	assert.Equal(t, "100000000.1 = 100000000.1", h.String())
}

func TestEvaluateKeypad(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"√9", "3"},
		{"3!", "6"},
		{"2×3÷4", "1.5"},
		{"5²", "25"},
		{"1/3", "0.333333333333"},
	}
	for _, c := range cases {
		s := New()
		s.Append(c.in)
		got, h := s.Evaluate()
		assert.Equal(t, c.want, got, c.in)
		if assert.NotNil(t, h, c.in) {
			assert.Equal(t, c.in, h.Expr)
		}
	}
}

func TestEvaluateFailure(t *testing.T) {
	cases := []string{
		"sqrt(-1)",
		"1/0",
		"2+",
		"(3]",
		"__import__('os')",
		"foo(1)",
		"",
	}
	for _, in := range cases {
		s := New()
		s.Append(in)
		got, h := s.Evaluate()
		assert.Equal(t, ErrorText, got, in)
		assert.Nil(t, h, in)
		assert.Empty(t, s.Buffer(), in)
		assert.Empty(t, s.History(), in)
	}
}

func TestEvaluateLogsKind(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithLogger(logging.NewWriter(&buf, slog.LevelDebug)))
	s.Append("1/0")
	s.Evaluate()

	out := buf.String()
	assert.Contains(t, out, `kind="division by zero"`)
	assert.Contains(t, out, "session="+s.ID())
	assert.Contains(t, out, "err=")
}

func TestEditing(t *testing.T) {
	s := New()
	assert.Equal(t, "12", s.Append("12"))
	assert.Equal(t, "1", s.DeleteLast())
	assert.Equal(t, "", s.DeleteLast())
	assert.Equal(t, "", s.DeleteLast())

	// Deleting removes a whole keypad glyph.
	s.Append("2√")
	assert.Equal(t, "2", s.DeleteLast())

	s.Append("+1")
	s.Evaluate()
	s.Append("+")
	s.Clear()
	assert.Empty(t, s.Buffer())
	assert.Len(t, s.History(), 1)
}

func TestSmartFunctionInsertsName(t *testing.T) {
	cases := []struct {
		buf  string
		want string
	}{
		{"", "sqrt"},
		{"3+", "3+sqrt"},
		{"3-", "3-sqrt"},
		{"3*", "3*sqrt"},
		{"3/", "3/sqrt"},
		{"3%", "3%sqrt"},
		{"(", "(sqrt"},
		{"[", "[sqrt"},
	}
	for _, c := range cases {
		s := New()
		s.Append(c.buf)
		got, h, err := s.ApplySmartFunction("sqrt")
		require.NoError(t, err)
		assert.Equal(t, c.want, got, c.buf)
		assert.Equal(t, c.want, s.Buffer(), c.buf)
		assert.Nil(t, h, c.buf)
	}
}

func TestSmartFunctionApplies(t *testing.T) {
	cases := []struct {
		name string
		buf  string
		want string
		expr string
	}{
		{"sqrt", "9", "3", "sqrt(9)"},
		{"sqrt", "2+7", "3", "sqrt(9)"},
		{"sqrt", "2", "1.414213562373", "sqrt(2)"},
		{"cbrt", "27", "3", "cbrt(27)"},
		{"cbrt", "-8", "-2", "cbrt(-8)"},
		{"sqrt", "(16)", "4", "sqrt(16)"},
	}
	for _, c := range cases {
		s := New()
		s.Append(c.buf)
		got, h, err := s.ApplySmartFunction(c.name)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, c.buf)
		assert.Equal(t, c.want, s.Buffer(), c.buf)
		if assert.NotNil(t, h, c.buf) {
			assert.Equal(t, HistoryEntry{Expr: c.expr, Result: c.want}, *h)
		}
		assert.Len(t, s.History(), 1)
	}
}

func TestSmartFunctionFallsBack(t *testing.T) {
	cases := []struct {
		name string
		buf  string
		want string
	}{
		{"sqrt", "-4", "-4sqrt"},
		{"sqrt", "2)", "2)sqrt"},
		{"cbrt", "foo", "foocbrt"},
		{"sqrt", "1/0", "1/0sqrt"},
	}
	for _, c := range cases {
		s := New()
		s.Append(c.buf)
		got, h, err := s.ApplySmartFunction(c.name)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, c.buf)
		assert.Nil(t, h, c.buf)
		assert.Empty(t, s.History(), c.buf)
	}
}

func TestSmartFunctionUnsupported(t *testing.T) {
	s := New()
	s.Append("9")
	got, h, err := s.ApplySmartFunction("sin")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Equal(t, "9", got)
	assert.Nil(t, h)
	assert.Equal(t, "9", s.Buffer())
}

func TestHistoryIsCopy(t *testing.T) {
	s := New()
	s.Append("1+1")
	s.Evaluate()
	h := s.History()
	h[0].Result = "3"
	assert.Equal(t, "2", s.History()[0].Result)
}

func TestOptions(t *testing.T) {
	s := New(WithContext(calc.NewContext(calc.Angle(calc.Radians))))
	s.Append("cos(0)+sin(pi/2)")
	got, _ := s.Evaluate()
	assert.Equal(t, "2", got)

	double := calc.Monadic(func(out, in *big.Float) *big.Float { return out.Add(in, in) })
	s = New(WithTable(calc.NewTable(map[string]calc.Func{"double": double, "sqrt": double})))
	s.Append("double(4)")
	got, _ = s.Evaluate()
	assert.Equal(t, "8", got)
	got, h, err := s.ApplySmartFunction("sqrt")
	require.NoError(t, err)
	assert.Equal(t, "16", got)
	assert.Equal(t, "sqrt(8) = 16", h.String())
}

func TestID(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a.ID(), b.ID())
	_, err := uuid.Parse(a.ID())
	assert.NoError(t, err)
}
