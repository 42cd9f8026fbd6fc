// Package general is the reference metadata store: one SQLite table per rule,
// queried with statements composed from the search fields.
package general

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/filedb/pkg/stores"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

// Kind is the store kind rules select this store with.
const Kind = "general"

// Option keys read from the rule's options table.
const (
	OptionTable          = "table"
	OptionBindParameters = "bind_parameters"
)

func init() {
	stores.Register(Kind, func(rule types.ResolvedRule) (stores.Cache, error) {
		return New(rule)
	})
}

// Store keeps one exclusive connection to the rule's database file.
type Store struct {
	db     *sql.DB
	path   string
	table  string
	bind   bool
	logger zerolog.Logger

	now func() time.Time
}

// New opens (creating if needed) the database file for rule.
func New(rule types.ResolvedRule) (*Store, error) {
	path, err := stores.Location(rule)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage, "failed to open store %s", path)
	}
	db.SetMaxOpenConns(1)

	s, err := open(db, rule, path)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func open(db *sql.DB, rule types.ResolvedRule, path string) (*Store, error) {
	s := &Store{
		db:     db,
		path:   path,
		table:  stores.StringOption(rule, OptionTable, stores.DefaultTable),
		bind:   stores.BoolOption(rule, OptionBindParameters),
		logger: logging.GetLogger("stores.general").With().Str("rule", rule.Name).Logger(),
		now:    time.Now,
	}

	if err := s.createTable(); err != nil {
		return nil, err
	}
	if err := s.checkLabels(rule.LabelColumns()); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("path", path).Str("table", s.table).Msg("Store ready")
	return s, nil
}

func (s *Store) createTable() error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	datetime TEXT,
	path TEXT NOT NULL,
	tags TEXT
);`, s.table)
	if _, err := s.db.Exec(stmt); err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "failed to create table %s", s.table)
	}
	return nil
}

// checkLabels reports label columns the table does not have. Missing columns
// are never added.
func (s *Store) checkLabels(labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s);", s.table))
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "failed to read columns of %s", s.table)
	}
	info, err := stores.ScanRows(rows)
	if err != nil {
		return err
	}

	existing := make(map[string]bool)
	for _, name := range info.Column("name") {
		existing[fmt.Sprint(name)] = true
	}
	for _, label := range labels {
		if !existing[label] {
			s.logger.Warn().Str("table", s.table).Str("column", label).Msg("Label column missing from store table")
		}
	}
	return nil
}

// Record inserts the row for dst. The tags column is left out when there are no tags.
func (s *Store) Record(dst string, rule types.ResolvedRule, tags []string) error {
	entry, err := stores.NewEntry(rule, dst, tags, s.now())
	if err != nil {
		return err
	}

	ins := stores.Insert{
		Table:   s.table,
		Columns: []string{"datetime", "path"},
		Values:  []string{entry.Time.Format(types.TimestampLayout), entry.Path},
	}
	if len(tags) > 0 {
		ins.Columns = append(ins.Columns, "tags")
		ins.Values = append(ins.Values, entry.Tags)
	}

	stmt, args := ins.Render(s.bind)
	if _, err := s.db.Exec(stmt, args...); err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "failed to record %s", entry.Path)
	}

	s.logger.Debug().Str("path", entry.Path).Str("datetime", ins.Values[0]).Msg("Recorded")
	return nil
}

// Search runs q against the table. Values are interpolated as literals unless
// the rule sets bind_parameters.
func (s *Store) Search(q types.Query) (*types.ResultSet, error) {
	stmt, args := stores.BuildSelect(s.table, q).Render(s.bind)
	s.logger.Debug().Str("query", stmt).Int("args", len(args)).Msg("Searching")

	rows, err := s.db.Query(stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStorage, "search failed").WithDetail("query", stmt)
	}
	return stores.ScanRows(rows)
}

// Path returns the database file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the connection.
func (s *Store) Close() error {
	return s.db.Close()
}
