package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is the released version string.
var Version = "0.1-Dev"

var logger *zap.SugaredLogger

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "equihash",
		Short:   "Solve and mine Wagner's generalized-birthday proof of work",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger(viper.GetBool("verbose"))
		},
	}

	pf := root.PersistentFlags()
	pf.Bool("verbose", false, "enable debug logging")
	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.SetEnvPrefix("EQUIHASH")
	viper.AutomaticEnv()

	root.AddCommand(newSolveCommand())
	root.AddCommand(newMineCommand())
	return root
}

func initLogger(verbose bool) error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	logger = l.Sugar()
	return nil
}
