package calc

import (
	"regexp"
	"strings"
)

// glyphs maps keypad symbols to the text the parser understands.
var glyphs = strings.NewReplacer(
	"√", "sqrt",
	"∛", "cbrt",
	"π", "pi",
	"×", "*",
	"÷", "/",
	"²", "**2",
	"^", "**",
)

// bareCall matches a root function applied to a literal without brackets,
// e.g. sqrt9 or cbrt 2.5.
var bareCall = regexp.MustCompile(`(sqrt|cbrt)\s*([0-9]+(?:\.[0-9]+)?)`)

// Rewrite replaces keypad glyphs with their names and operators, then wraps
// the operand of a bare sqrt or cbrt in parentheses: "√9" and "sqrt 9" both
// become "sqrt(9)". No other function is applied without brackets, and a
// root with no literal after it is left as it is.
func Rewrite(s string) string {
	s = glyphs.Replace(s)
	return bareCall.ReplaceAllString(s, "$1($2)")
}

// ExpandFactorials replaces each factorial mark and the run of digits before
// it with a call to fact, so "3!+10!" becomes "fact(3)+fact(10)". A mark with
// no digits before it becomes "fact()", which does not parse.
func ExpandFactorials(s string) string {
	for {
		k := strings.IndexByte(s, '!')
		if k < 0 {
			return s
		}
		i := k
		for i > 0 && '0' <= s[i-1] && s[i-1] <= '9' {
			i--
		}
		s = s[:i] + "fact(" + s[i:k] + ")" + s[k+1:]
	}
}

// Canonicalize converts keypad input into an expression for Parse.
func Canonicalize(s string) string {
	return ExpandFactorials(Rewrite(s))
}
