package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
)

var funcsCmd = &cobra.Command{
	Use:   "funcs",
	Short: "List the functions and constants expressions may use",
	Run: func(cmd *cobra.Command, args []string) {
		t := calc.DefaultTable()
		for _, name := range t.Names() {
			kind := "function"
			if t.Lookup(name).CanCall(0) {
				kind = "constant"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", name, kind)
		}
	},
}

func init() {
	rootCmd.AddCommand(funcsCmd)
}
