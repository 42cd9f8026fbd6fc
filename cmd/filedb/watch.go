package filedb

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/filedb/pkg/router"
	"github.com/arthur-debert/filedb/pkg/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *options) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: MsgWatchShort,
		Long: `Watch adds every regular file created in DIR, one at a time, until
interrupted. Subdirectories are not watched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.watch")

			r, err := opts.newRouter()
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}

			tagList := splitTags(tags)
			w, err := watch.New(args[0], func(path string) error {
				res, err := r.Add(path, tagList)
				if err != nil {
					return err
				}
				return renderer.RenderResult([]router.AddResult{res})
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := w.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg(fmt.Sprintf(MsgWatchStopped, args[0]))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, MsgFlagTags)
	return cmd
}
