package filedb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/filedb/pkg/config"
	"github.com/arthur-debert/filedb/pkg/paths"
	"github.com/spf13/cobra"
)

func newInitCmd(opts *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: MsgInitShort,
		Long: `Init writes a configuration with a single "general" rule that archives
files named like report_2022_01_30.txt under archive/<year>/<month>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf(MsgErrConfigExists, path)
			}

			root := opts.root
			if root == "" {
				var err error
				if root, err = paths.DefaultRoot(); err != nil {
					return err
				}
			} else if abs, err := filepath.Abs(paths.ExpandHome(root)); err == nil {
				root = abs
			}

			if err := config.Save(path, config.Starter(root)); err != nil {
				return err
			}

			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			return renderer.RenderMessage(fmt.Sprintf(MsgConfigWritten, path))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	return cmd
}
