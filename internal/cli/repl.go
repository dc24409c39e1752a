// Package cli connects a calculator session to a line-oriented terminal.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/zephyrtronium/calc/session"
)

const help = `Type any text to add it to the input. Commands:
  =          evaluate the input
  :del       delete the last character
  :clear     clear the input
  :sqrt      square root of the input, or insert sqrt
  :cbrt      cube root of the input, or insert cbrt
  :history   show previous results
  :help      show this help
  :quit      exit`

// REPL reads keypad input line by line and writes what a calculator display
// would show after each line.
type REPL struct {
	s   *session.Session
	out *termenv.Output
}

// NewREPL creates a REPL writing to w. Colour is used only if color is true
// and w supports it.
func NewREPL(s *session.Session, w io.Writer, color bool) *REPL {
	var opts []termenv.OutputOption
	if !color {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	return &REPL{s: s, out: termenv.NewOutput(w, opts...)}
}

// Run processes lines from r until EOF or a quit command.
func (r *REPL) Run(in io.Reader) error {
	scan := bufio.NewScanner(in)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}
		quit, err := r.Do(line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	if err := scan.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// Do performs one line of input. It reports whether the line asked to quit.
func (r *REPL) Do(line string) (bool, error) {
	switch line {
	case "=":
		display, _ := r.s.Evaluate()
		return false, r.display(display)
	case ":del":
		return false, r.display(r.s.DeleteLast())
	case ":clear":
		r.s.Clear()
		return false, r.display("")
	case ":sqrt", ":cbrt":
		display, _, err := r.s.ApplySmartFunction(line[1:])
		if err != nil {
			return false, err
		}
		return false, r.display(display)
	case ":history":
		for _, h := range r.s.History() {
			if _, err := fmt.Fprintln(r.out, h); err != nil {
				return false, err
			}
		}
		return false, nil
	case ":help":
		_, err := fmt.Fprintln(r.out, help)
		return false, err
	case ":quit", ":exit":
		return true, nil
	default:
		return false, r.display(r.s.Append(line))
	}
}

func (r *REPL) display(text string) error {
	var err error
	if text == session.ErrorText {
		s := r.out.String(text).Foreground(r.out.Color("1")).Bold()
		_, err = fmt.Fprintln(r.out, s)
	} else {
		_, err = fmt.Fprintln(r.out, "> "+text)
	}
	return err
}
