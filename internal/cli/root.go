package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "FSLCMD"

var (
	workspaceDir   string
	outputJSON     bool
	outputTypeFlag string
	logLevelFlag   string

	// settings resolves global flags with environment fallbacks.
	settings *viper.Viper
)

// Execute runs the root cobra command. An interrupt cancels the command's
// context so batch runs stop scheduling new invocations.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fslcmd",
		Short:         "Build and run FSL command lines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&workspaceDir, "dir", "", "Path to workspace directory")
	flags.BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	flags.StringVar(&outputTypeFlag, "output-type", "", "FSL output type (NIFTI, NIFTI_GZ, NIFTI_PAIR, NIFTI_PAIR_GZ)")
	flags.StringVar(&logLevelFlag, "log-level", "", "Log level (debug|info|warn|error)")

	settings = viper.New()
	settings.SetEnvPrefix(envPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	for _, name := range []string{"dir", "output-type", "log-level"} {
		if err := settings.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind %s flag: %v", name, err))
		}
	}
	// FSL's own variable is honoured when FSLCMD_OUTPUT_TYPE is unset.
	if err := settings.BindEnv("output-type", envPrefix+"_OUTPUT_TYPE", "FSLOUTPUTTYPE"); err != nil {
		panic(fmt.Sprintf("bind output-type env: %v", err))
	}

	cmd.AddCommand(newCmdlineCmd())
	cmd.AddCommand(newOutputsCmd())
	cmd.AddCommand(newOptionsCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
