package filedb

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/filedb/pkg/router"
	"github.com/spf13/cobra"
)

func newAddCmd(opts *options) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "add FILE...",
		Short: MsgAddShort,
		Long: `Add classifies each file against the configured rules, records its
metadata in the matching rule's store and moves it into the archive.

Files no rule claims are skipped with a warning. Files whose destination is
already taken are left where they are.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.add")
			defer logging.LogOperationStart(logger, "add")()

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
			results := make([]router.AddResult, 0, len(args))
			var runErr error
			for _, file := range args {
				res, err := r.Add(file, tagList)
				if err != nil {
					runErr = fmt.Errorf("%s: %w", file, err)
					break
				}
				results = append(results, res)
			}

			if err := renderer.RenderResult(results); err != nil {
				return err
			}
			added, skipped, exists := summarize(results)
			logger.Info().Int("added", added).Int("skipped", skipped).Int("exists", exists).
				Msgf(MsgAddSummary, added, skipped, exists)
			return runErr
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, MsgFlagTags)
	return cmd
}

// splitTags drops empty entries and duplicates, keeping first occurrence order.
func splitTags(raw []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func summarize(results []router.AddResult) (added, skipped, exists int) {
	for _, r := range results {
		switch r.Status {
		case router.StatusAdded:
			added++
		case router.StatusAlreadyExists:
			exists++
		default:
			skipped++
		}
	}
	return added, skipped, exists
}
