package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc/session"
)

var errFailed = errors.New("one or more expressions failed to evaluate")

var evalCmd = &cobra.Command{
	Use:   "eval expr...",
	Short: "Evaluate each argument and print its result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s := newSession(cfg)
		failed := false
		for _, arg := range args {
			s.Clear()
			s.Append(arg)
			display, _ := s.Evaluate()
			if display == session.ErrorText {
				failed = true
			}
			fmt.Fprintln(cmd.OutOrStdout(), display)
		}
		if failed {
			return errFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
