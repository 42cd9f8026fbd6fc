package filedb

import (
	"fmt"

	"github.com/arthur-debert/filedb/internal/version"
	"github.com/arthur-debert/filedb/pkg/config"
	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/filedb/pkg/paths"
	"github.com/arthur-debert/filedb/pkg/router"
	"github.com/arthur-debert/filedb/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// options carries the persistent flags down to the subcommands.
type options struct {
	verbosity  int
	configFile string
	root       string
	output     string
}

// configPath resolves the configuration file from the flag and environment.
func (o *options) configPath() string {
	return paths.ConfigFile(o.configFile)
}

// source builds the configuration source, applying --root on top of the file.
func (o *options) source() *config.FileSource {
	src := config.NewFileSource(o.configPath())
	if o.root != "" {
		src.Overrides = map[string]interface{}{"root": paths.ExpandHome(o.root)}
	}
	return src
}

func (o *options) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	format, err := ui.ParseFormat(o.output)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

// newRouter makes sure the configuration names an archive root, then
// builds a router that rereads the file for every operation.
func (o *options) newRouter() (*router.FileRouter, error) {
	if o.root == "" {
		if _, err := config.EnsureRoot(o.configPath()); err != nil {
			return nil, err
		}
	}
	return router.New(o.source()), nil
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "filedb",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity, paths.LogFile())
			log.Debug().Str("command", cmd.Name()).Str("config", opts.configPath()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", "", MsgFlagRootOverride)
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "auto", MsgFlagOutput)

	rootCmd.SetUsageTemplate(usageTemplate)

	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newSearchCmd(opts))
	rootCmd.AddCommand(newRulesCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}
