// Package router ties rule resolution, the per-rule stores and the mover
// together: it is the entry point for adding files to the archive and for
// searching a rule's metadata.
package router

import (
	"github.com/arthur-debert/filedb/pkg/config"
	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/filesystem"
	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/filedb/pkg/rules"
	"github.com/arthur-debert/filedb/pkg/stores"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/rs/zerolog"
)

// Status classifies the outcome of Add.
type Status string

const (
	StatusAdded           Status = "added"
	StatusUnknownFileType Status = "unknown_file_type"
	StatusAlreadyExists   Status = "already_exists"
)

// AddResult describes what Add did with a file.
type AddResult struct {
	File        string `json:"file" yaml:"file"`
	Status      Status `json:"status" yaml:"status"`
	Rule        string `json:"rule,omitempty" yaml:"rule,omitempty"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// FileRouter classifies, records and relocates files.
type FileRouter struct {
	resolver *rules.Resolver
	stores   *stores.Registry
	mover    *filesystem.Mover
	logger   zerolog.Logger
}

// Option configures a FileRouter.
type Option func(*FileRouter)

// WithMover makes the router place files with m instead of the OS mover.
func WithMover(m *filesystem.Mover) Option {
	return func(r *FileRouter) {
		r.mover = m
	}
}

// WithStores makes the router share an existing store registry.
func WithStores(reg *stores.Registry) Option {
	return func(r *FileRouter) {
		r.stores = reg
	}
}

// WithLogger replaces the router's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *FileRouter) {
		r.logger = logger
	}
}

// New creates a router reading its rules from source.
func New(source config.Source, opts ...Option) *FileRouter {
	r := &FileRouter{
		resolver: rules.NewResolver(source),
		stores:   stores.NewRegistry(),
		mover:    filesystem.NewOSMover(),
		logger:   logging.GetLogger("router"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add classifies path and, when a rule with a store and a folder template
// claims it, records its metadata and then moves it into the archive.
//
// Files no rule can place are reported as StatusUnknownFileType and files
// whose destination is taken as StatusAlreadyExists; neither is an error
// and neither touches the store or the filesystem. Metadata is recorded
// before the move, so a failed move leaves a row for a file that was never
// placed.
func (r *FileRouter) Add(path string, tags []string) (AddResult, error) {
	result := AddResult{File: path}

	matched, err := r.resolver.Match(path)
	if err != nil {
		return result, err
	}
	if !matched {
		r.logger.Warn().Str("file", path).Msg("Unknown file type, no rule matches")
		result.Status = StatusUnknownFileType
		return result, nil
	}

	match := r.resolver.Result()
	rule := match.Rule
	result.Rule = rule.Name

	if !rule.HasStore() {
		r.logger.Warn().Str("file", path).Str("rule", rule.Name).Msg("Unknown file type, rule has no store")
		result.Status = StatusUnknownFileType
		return result, nil
	}

	dst, ok, err := r.resolver.Destination()
	if err != nil {
		return result, err
	}
	if !ok {
		r.logger.Warn().Str("file", path).Str("rule", rule.Name).Msg("Unknown file type, rule has no folder")
		result.Status = StatusUnknownFileType
		return result, nil
	}
	result.Destination = dst

	occupied, err := r.mover.Exists(dst)
	if err != nil {
		return result, err
	}
	if occupied {
		r.logger.Error().Str("file", path).Str("destination", dst).Msg("File already exists in the archive")
		result.Status = StatusAlreadyExists
		return result, nil
	}

	cache, err := r.stores.Get(rule)
	if err != nil {
		return result, err
	}
	if err := cache.Record(dst, rule, tags); err != nil {
		return result, err
	}
	if err := r.mover.Move(dst, path); err != nil {
		r.logger.Error().Err(err).Str("file", path).Str("destination", dst).
			Msg("Metadata recorded but the file could not be moved")
		return result, err
	}

	if info, statErr := r.mover.Stat(dst); statErr == nil {
		result.Size = info.Size()
	}
	result.Status = StatusAdded
	r.logger.Info().
		Str("file", path).
		Str("rule", rule.Name).
		Str("destination", dst).
		Strs("tags", tags).
		Msg("File added")
	return result, nil
}

// Search queries the store of the named rule. An unknown rule, or one with
// no store configured, yields an empty result.
func (r *FileRouter) Search(ruleName string, q types.Query) (*types.ResultSet, error) {
	rule, ok, err := r.resolver.Lookup(ruleName)
	if err != nil {
		return nil, err
	}
	if !ok || !rule.HasStore() {
		r.logger.Debug().Str("rule", ruleName).Bool("known", ok).Msg("Nothing to search")
		return &types.ResultSet{Rows: [][]interface{}{}}, nil
	}

	cache, err := r.stores.Get(rule)
	if err != nil {
		return nil, err
	}
	rs, err := cache.Search(q)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Str("rule", ruleName).Int("rows", rs.Len()).Msg("Search done")
	return rs, nil
}

// Rules lists the configured rules.
func (r *FileRouter) Rules() ([]types.ResolvedRule, error) {
	return r.resolver.Rules()
}

// Close closes every store the router opened.
func (r *FileRouter) Close() error {
	if err := r.stores.Close(); err != nil {
		return errors.Wrap(err, errors.ErrStorage, "failed to close stores")
	}
	return nil
}
