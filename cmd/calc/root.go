package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/cli"
	"github.com/zephyrtronium/calc/internal/config"
	"github.com/zephyrtronium/calc/internal/logging"
	"github.com/zephyrtronium/calc/session"
)

var rootCmd = &cobra.Command{
	Use:   "calc",
	Short: "calc is a scientific calculator",
	Long: `calc evaluates calculator input typed a line at a time.
Settings come from CALC_PRECISION, CALC_ANGLE, CALC_LOG_LEVEL and CALC_COLOR,
and flags override them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		r := cli.NewREPL(newSession(cfg), cmd.OutOrStdout(), cfg.Color)
		return r.Run(cmd.InOrStdin())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Uint("prec", 64, "precision of calculations in bits")
	pf.String("angle", "deg", "angle unit for trigonometry (deg or rad)")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.Bool("color", true, "colour error output when the terminal supports it")
}

// loadConfig reads the environment, then applies any flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	fs := cmd.Flags()
	var o []config.Override
	if fs.Changed("prec") {
		v, _ := fs.GetUint("prec")
		o = append(o, func(c *config.Config) { c.Precision = v })
	}
	if fs.Changed("angle") {
		v, _ := fs.GetString("angle")
		o = append(o, func(c *config.Config) { c.Angle = v })
	}
	if fs.Changed("log-level") {
		v, _ := fs.GetString("log-level")
		o = append(o, func(c *config.Config) { c.LogLevel = v })
	}
	if fs.Changed("color") {
		v, _ := fs.GetBool("color")
		o = append(o, func(c *config.Config) { c.Color = v })
	}
	return config.Load(o...)
}

func newSession(cfg config.Config) *session.Session {
	return session.New(
		session.WithContext(calc.NewContext(cfg.ContextOptions()...)),
		session.WithLogger(logging.New(cfg.Level())),
	)
}
