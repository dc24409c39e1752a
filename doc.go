// Package calc implements the evaluation core of a scientific calculator.
//
// Input is the text a user builds up on a calculator keypad, so it may
// contain shortcuts that are not valid arithmetic: "sqrt9" or "√9" for
// sqrt(9), "5!" for fact(5), and "[" and "]" as a second kind of
// parentheses. Canonicalize rewrites those shortcuts into plain function
// calls, Parse turns the result into a tree, and a Context evaluates the
// tree. Normalize turns the value into the text a calculator displays.
//
// The only names an expression can refer to are the functions and constants
// in a Table. There is no way for an expression to reach anything else.
package calc
