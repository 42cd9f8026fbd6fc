package filedb

import (
	"github.com/arthur-debert/filedb/pkg/router"
	"github.com/spf13/cobra"
)

func newRulesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: MsgRulesShort,
		Long:  "Rules lists the configured rules in the order they are tried.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := router.New(opts.source())
			defer func() { _ = r.Close() }()

			rules, err := r.Rules()
			if err != nil {
				return err
			}
			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			return renderer.RenderResult(rules)
		},
	}
}
