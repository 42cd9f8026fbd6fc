// Package orm implements the metadata store over gorm. It keeps the schema of
// the general store but always binds query values.
package orm

import (
	"io"
	"time"

	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/filedb/pkg/stores"
	"github.com/arthur-debert/filedb/pkg/types"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Kind is the store kind rules select this store with.
const Kind = "orm"

func init() {
	stores.Register(Kind, func(rule types.ResolvedRule) (stores.Cache, error) {
		return New(rule)
	})
}

// Content is one metadata row.
type Content struct {
	ID       int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Datetime string  `gorm:"column:datetime;type:text"`
	Path     string  `gorm:"column:path;type:text;not null"`
	Tags     *string `gorm:"column:tags;type:text"`
}

// Store is a gorm-backed metadata store.
type Store struct {
	db     *gorm.DB
	table  string
	logger zerolog.Logger

	now func() time.Time
}

// New opens the rule's database file and migrates its table.
func New(rule types.ResolvedRule) (*Store, error) {
	path, err := stores.Location(rule)
	if err != nil {
		return nil, err
	}
	return connect(sqlite.Open(path), rule)
}

// connect opens dialector and migrates the rule's table. The connection is
// closed again when any step after opening fails.
func connect(dialector gorm.Dialector, rule types.ResolvedRule) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage, "failed to open store for rule %s", rule.Name)
	}
	sqlDB, err := db.DB()
	if err != nil {
		if c, ok := db.ConnPool.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, errors.Wrap(err, errors.ErrStorage, "failed to get connection pool")
	}
	sqlDB.SetMaxOpenConns(1)

	s, err := open(db, rule)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func open(db *gorm.DB, rule types.ResolvedRule) (*Store, error) {
	s := &Store{
		db:     db,
		table:  stores.StringOption(rule, "table", stores.DefaultTable),
		logger: logging.GetLogger("stores.orm").With().Str("rule", rule.Name).Logger(),
		now:    time.Now,
	}

	if err := s.scoped().AutoMigrate(&Content{}); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage, "failed to migrate table %s", s.table)
	}

	migrator := s.scoped().Migrator()
	for _, label := range rule.LabelColumns() {
		if !migrator.HasColumn(&Content{}, label) {
			s.logger.Warn().Str("table", s.table).Str("column", label).Msg("Label column missing from store table")
		}
	}
	return s, nil
}

func (s *Store) scoped() *gorm.DB {
	return s.db.Table(s.table)
}

// Record inserts the row for dst, leaving tags NULL when there are none.
func (s *Store) Record(dst string, rule types.ResolvedRule, tags []string) error {
	entry, err := stores.NewEntry(rule, dst, tags, s.now())
	if err != nil {
		return err
	}

	row := Content{
		Datetime: entry.Time.Format(types.TimestampLayout),
		Path:     entry.Path,
	}
	tx := s.scoped()
	if len(tags) > 0 {
		row.Tags = &entry.Tags
	} else {
		tx = tx.Omit("tags")
	}
	if err := tx.Create(&row).Error; err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "failed to record %s", entry.Path)
	}

	s.logger.Debug().Int64("id", row.ID).Str("path", entry.Path).Msg("Recorded")
	return nil
}

// Search runs q with bound values.
func (s *Store) Search(q types.Query) (*types.ResultSet, error) {
	tx := s.scoped()
	if len(q.Parameter) > 0 {
		tx = tx.Select(q.Parameter)
	}
	if where := stores.Where(q); where != nil {
		clause, args := stores.Render(where, true)
		tx = tx.Where(clause, args...)
	}

	rows, err := tx.Order("id").Rows()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStorage, "search failed")
	}
	return stores.ScanRows(rows)
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
