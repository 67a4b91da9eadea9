// Package cmd provides the root command and CLI setup for mutlab.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mutlab.dev/pkg/mutlab/internal/adapter"
	"mutlab.dev/pkg/mutlab/internal/domain"
)

var workspace adapter.Workspace
var mutagen domain.Mutagen

// outputDirFlag is a root-level flag naming where mutants.out is created;
// empty means the source tree root.
var outputDirFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	workspace = adapter.NewLocalWorkspace()
	mutagen = domain.NewMutagen()
}

const rootLongDescription = `Mutlab is a mutation testing harness for Go. It introduces small changes
(mutations) into a copy of your code, rebuilds and retests it for each one,
and reports the mutants your test suite failed to catch.

Results are written to a mutants.out directory; the previous run is kept as
mutants.out.old.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mutlab",
		Short: "Go mutation testing harness",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputKey),
			"directory to create mutants.out in (default: the source tree)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// exitCodeError carries a specific process exit code out of a command. The
// message has already been shown to the user by the time it is returned.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var exitErr exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}

		os.Exit(1)
	}
}

// treeArg resolves the optional positional source tree argument.
func treeArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}

	return "."
}
