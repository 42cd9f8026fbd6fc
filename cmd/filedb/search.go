package filedb

import (
	"github.com/arthur-debert/filedb/pkg/config"
	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/filedb/pkg/router"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSearchCmd(opts *options) *cobra.Command {
	var (
		q     types.Query
		tags  string
		query string
	)

	cmd := &cobra.Command{
		Use:   "search RULE",
		Short: MsgSearchShort,
		Long: `Search returns the metadata rows a rule's store holds. The time range is
inclusive and compared as text, so partial timestamps such as 2022-01 work
as prefixes. Rows match when their tags contain any of the given tags.

A rule without a store, or an unknown rule, returns no rows.

--query takes the whole query as one JSON or YAML document with the keys
parameter, starttime, endtime and tags. Flags given alongside it win.`,
		Example:           MsgSearchExample,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: ruleNamesCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.search")

			q.Tags = types.ParseTags(tags)
			if query != "" {
				doc, err := parseQuery(query)
				if err != nil {
					return err
				}
				q = mergeQuery(cmd, doc, q)
			}
			logger.Debug().Str("rule", args[0]).Interface("query", q).Msg("Searching")

			r := router.New(opts.source())
			defer func() { _ = r.Close() }()

			rs, err := r.Search(args[0], q)
			if err != nil {
				return err
			}

			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			return renderer.RenderResult(rs)
		},
	}

	cmd.Flags().StringVar(&q.StartTime, "start", "", MsgFlagStart)
	cmd.Flags().StringVar(&q.EndTime, "end", "", MsgFlagEnd)
	cmd.Flags().StringVar(&tags, "tags", "", MsgFlagSearchT)
	cmd.Flags().StringArrayVarP(&q.Parameter, "param", "p", nil, MsgFlagParam)
	cmd.Flags().StringVarP(&query, "query", "q", "", MsgFlagQuery)
	return cmd
}

// parseQuery reads a query document such as {"starttime": "2022-01-01", "tags": [1, 2]}.
func parseQuery(doc string) (types.Query, error) {
	var m map[string]interface{}
	if err := yaml.Unmarshal([]byte(doc), &m); err != nil {
		return types.Query{}, errors.Wrap(err, errors.ErrInvalidInput, "invalid query document")
	}
	q, err := types.QueryFromMap(m)
	if err != nil {
		return types.Query{}, errors.Wrap(err, errors.ErrInvalidInput, "invalid query document")
	}
	return q, nil
}

// mergeQuery lays the explicitly set flags over doc.
func mergeQuery(cmd *cobra.Command, doc, flags types.Query) types.Query {
	if cmd.Flags().Changed("start") {
		doc.StartTime = flags.StartTime
	}
	if cmd.Flags().Changed("end") {
		doc.EndTime = flags.EndTime
	}
	if cmd.Flags().Changed("tags") {
		doc.Tags = flags.Tags
	}
	if cmd.Flags().Changed("param") {
		doc.Parameter = flags.Parameter
	}
	return doc
}

// ruleNamesCompletion completes the first argument with configured rule names.
func ruleNamesCompletion(opts *options) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cfg, err := config.Load(opts.configPath())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names := make([]string, 0, len(cfg.Rules))
		for _, r := range cfg.Rules {
			names = append(names, r.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
