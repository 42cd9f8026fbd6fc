// Package redis implements the metadata store on Redis: one hash per entry
// plus a sorted set indexing entries by event time.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/filedb/pkg/stores"
	"github.com/arthur-debert/filedb/pkg/types"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Kind is the store kind rules select this store with.
const Kind = "redis"

// Option keys read from the rule's options table.
const (
	OptionAddr   = "addr"
	OptionDB     = "db"
	OptionPrefix = "prefix"
)

// DefaultAddr is used when the rule sets no addr option.
const DefaultAddr = "localhost:6379"

func init() {
	stores.Register(Kind, func(rule types.ResolvedRule) (stores.Cache, error) {
		return New(rule)
	})
}

// Store keeps entries under a per-rule key prefix.
type Store struct {
	client *goredis.Client
	prefix string
	logger zerolog.Logger

	now func() time.Time
}

// New connects to the server named by the rule's options.
func New(rule types.ResolvedRule) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr: stores.StringOption(rule, OptionAddr, DefaultAddr),
		DB:   stores.IntOption(rule, OptionDB, 0),
	})
	s := NewWithClient(client, rule)

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, errors.ErrStorage, "failed to reach redis").
			WithDetail("addr", client.Options().Addr)
	}
	return s, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, rule types.ResolvedRule) *Store {
	s := &Store{
		client: client,
		prefix: stores.StringOption(rule, OptionPrefix, "filedb:"+rule.Name),
		logger: logging.GetLogger("stores.redis").With().Str("rule", rule.Name).Logger(),
		now:    time.Now,
	}
	if labels := rule.LabelColumns(); len(labels) > 0 {
		known := make(map[string]bool, len(stores.Columns))
		for _, c := range stores.Columns {
			known[c] = true
		}
		for _, label := range labels {
			if !known[label] {
				s.logger.Warn().Str("column", label).Msg("Label column missing from store schema")
			}
		}
	}
	return s
}

func (s *Store) key(parts ...string) string {
	return s.prefix + ":" + strings.Join(parts, ":")
}

// Record stores the entry hash and indexes it by event time.
func (s *Store) Record(dst string, rule types.ResolvedRule, tags []string) error {
	entry, err := stores.NewEntry(rule, dst, tags, s.now())
	if err != nil {
		return err
	}
	ctx := context.Background()

	id, err := s.client.Incr(ctx, s.key("seq")).Result()
	if err != nil {
		return errors.Wrap(err, errors.ErrStorage, "failed to allocate entry id")
	}

	fields := map[string]interface{}{
		"id":       id,
		"datetime": entry.Time.Format(types.TimestampLayout),
		"path":     entry.Path,
	}
	if len(tags) > 0 {
		fields["tags"] = entry.Tags
	}

	member := strconv.FormatInt(id, 10)
	_, err = s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, s.key("entry", member), fields)
		p.ZAdd(ctx, s.key("index"), goredis.Z{Score: float64(entry.Time.Unix()), Member: member})
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "failed to record %s", entry.Path)
	}

	s.logger.Debug().Int64("id", id).Str("path", entry.Path).Msg("Recorded")
	return nil
}

// Search scans the index and filters entries with the same text comparison
// the table stores use.
func (s *Store) Search(q types.Query) (*types.ResultSet, error) {
	cols := q.Parameter
	if len(cols) == 0 {
		cols = stores.Columns
	}
	for _, c := range cols {
		if !isColumn(c) {
			return nil, errors.Newf(errors.ErrStorage, "no such column: %s", c)
		}
	}

	ctx := context.Background()
	ids, err := s.client.ZRangeByScore(ctx, s.key("index"), scoreRange(q)).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStorage, "search failed")
	}

	rs := &types.ResultSet{Columns: cols, Rows: [][]interface{}{}}
	for _, id := range ids {
		fields, err := s.client.HGetAll(ctx, s.key("entry", id)).Result()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrStorage, "failed to read entry %s", id)
		}
		if !matches(fields, q) {
			continue
		}
		row := make([]interface{}, len(cols))
		for i, c := range cols {
			row[i] = value(fields, c)
		}
		rs.Rows = append(rs.Rows, row)
	}
	return rs, nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func isColumn(name string) bool {
	for _, c := range stores.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// scoreRange narrows the index scan to a superset of the requested range.
// Bounds are day-granular so partial timestamps like "2022-01" still fall inside.
func scoreRange(q types.Query) *goredis.ZRangeBy {
	by := &goredis.ZRangeBy{Min: "-inf", Max: "+inf"}
	if t, ok := parseBound(q.StartTime); ok {
		by.Min = strconv.FormatInt(t.Unix(), 10)
	}
	if t, ok := parseBound(q.EndTime); ok {
		by.Max = strconv.FormatInt(t.AddDate(0, 0, 1).Unix(), 10)
	}
	return by
}

func parseBound(s string) (time.Time, bool) {
	if len(s) < len(time.DateOnly) {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func matches(fields map[string]string, q types.Query) bool {
	dt := fields["datetime"]
	if q.StartTime != "" && dt < q.StartTime {
		return false
	}
	if q.EndTime != "" && dt > q.EndTime {
		return false
	}
	if len(q.Tags) == 0 {
		return true
	}
	tags, ok := fields["tags"]
	if !ok {
		return false
	}
	tags = foldASCII(tags)
	for _, tag := range q.Tags {
		if strings.Contains(tags, foldASCII(tag)) {
			return true
		}
	}
	return false
}

// foldASCII lowercases ASCII letters only, the way SQLite's LIKE compares.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

func value(fields map[string]string, col string) interface{} {
	v, ok := fields[col]
	if !ok {
		return nil
	}
	if col == "id" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return v
}

// String describes the store for log output.
func (s *Store) String() string {
	return fmt.Sprintf("redis(%s)", s.prefix)
}
