package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutlab.dev/pkg/mutlab/internal/adapter"
	"mutlab.dev/pkg/mutlab/internal/controller"
	"mutlab.dev/pkg/mutlab/internal/domain"
	m "mutlab.dev/pkg/mutlab/internal/model"
)

// Exit codes distinguish the run's terminal states for scripting.
const (
	exitMutantsMissed = 2
	exitSetupFailed   = 3
	exitInterrupted   = 4
)

var runBuildSourceFlag bool
var runCopyTargetFlag bool
var runCheckOnlyFlag bool
var runShuffleFlag bool
var runTimeoutFlag time.Duration
var runTestArgsFlag []string
var runShowTimesFlag bool
var runPlainFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run mutation testing",
		Long: `Run mutation testing against the Go module at the given path (default:
current directory). Results are written incrementally to mutants.out, so an
interrupted run still leaves outcomes.json and the per-scenario logs behind.

Exit codes: 0 all mutants caught, 2 some mutants missed, 3 the source tree or
baseline failed, 4 interrupted.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree := treeArg(args)
			opts := optionsFromConfig()

			var ui controller.UI
			if viper.GetBool(plainKey) || !controller.IsTTY(os.Stdout) {
				ui = controller.NewConsole(cmd.OutOrStdout())
			} else {
				ui = controller.NewTUI(os.Stdout)
			}

			runner := adapter.NewLocalBuildRunner(viper.GetString(buildToolKey))
			lab := domain.NewLab(runner, workspace, mutagen, ui)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			outcome, err := lab.Run(ctx, tree, opts)
			if err != nil {
				ui.Close()

				if errors.Is(err, context.Canceled) {
					cmd.PrintErrln("interrupted, partial results are in mutants.out")
					return exitCodeError{code: exitInterrupted}
				}

				cmd.PrintErrln("error:", err)

				return err
			}

			ui.Summary(outcome)
			ui.Close()

			if outcome.State() == m.RunSetupFailed {
				return exitCodeError{code: exitSetupFailed}
			}

			if len(outcome.MissedMutants()) > 0 {
				return exitCodeError{code: exitMutantsMissed}
			}

			return nil
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&runBuildSourceFlag, buildSourceFlagName, viper.GetBool(buildSourceKey), "check and build the real source tree before copying it")
	bindFlagToConfig(cmd.Flags().Lookup(buildSourceFlagName), buildSourceKey)

	cmd.Flags().BoolVar(&runCopyTargetFlag, copyTargetFlagName, viper.GetBool(copyTargetKey), "copy the target directory into the scratch workspace")
	bindFlagToConfig(cmd.Flags().Lookup(copyTargetFlagName), copyTargetKey)

	cmd.Flags().BoolVar(&runCheckOnlyFlag, checkOnlyFlagName, viper.GetBool(checkOnlyKey), "only run the check phase for every scenario")
	bindFlagToConfig(cmd.Flags().Lookup(checkOnlyFlagName), checkOnlyKey)

	cmd.Flags().BoolVar(&runShuffleFlag, shuffleFlagName, viper.GetBool(shuffleKey), "test mutations in random order")
	bindFlagToConfig(cmd.Flags().Lookup(shuffleFlagName), shuffleKey)

	cmd.Flags().DurationVarP(&runTimeoutFlag, timeoutFlagName, "t", viper.GetDuration(timeoutKey), "test phase timeout (default: derived from the baseline test duration)")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), timeoutKey)

	cmd.Flags().StringArrayVar(&runTestArgsFlag, testArgsFlagName, viper.GetStringSlice(testArgsKey), "extra argument for the test phase (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(testArgsFlagName), testArgsKey)

	cmd.Flags().BoolVar(&runShowTimesFlag, showTimesFlagName, viper.GetBool(showTimesKey), "print scenario timings and the derived timeout")
	bindFlagToConfig(cmd.Flags().Lookup(showTimesFlagName), showTimesKey)

	cmd.Flags().BoolVar(&runPlainFlag, plainFlagName, viper.GetBool(plainKey), "plain line output instead of the live progress view")
	bindFlagToConfig(cmd.Flags().Lookup(plainFlagName), plainKey)
}

// optionsFromConfig snapshots the run options from flags, config and env.
func optionsFromConfig() m.Options {
	return m.Options{
		BuildSource:   viper.GetBool(buildSourceKey),
		CopyTarget:    viper.GetBool(copyTargetKey),
		CheckOnly:     viper.GetBool(checkOnlyKey),
		Shuffle:       viper.GetBool(shuffleKey),
		TestTimeout:   viper.GetDuration(timeoutKey),
		ExtraTestArgs: viper.GetStringSlice(testArgsKey),
		ShowTimes:     viper.GetBool(showTimesKey),
		OutputDir:     viper.GetString(outputKey),
	}
}
