package database

import (
	"errors"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// DB defines the database instance containing the
// connection to the SQLite type database.
type DB struct {
	conn *gorm.DB
}

// New returns a new *DB instance backed by the SQLite file at path.
func New(path string) (*DB, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn}

	if err = db.Migrate(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate migrates the current database structures.
func (db *DB) Migrate() error {
	return db.conn.AutoMigrate(&RunDB{}, &SuccessDB{})
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	sqlDB, err := db.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun saves a run together with its successes.
func (db *DB) SaveRun(run *RunDB) error {
	if len(run.Settings) == 0 {
		run.Settings = datatypes.JSON("{}")
	}
	return db.conn.Create(run).Error
}

// Runs returns every run, most recent first.
func (db *DB) Runs() ([]RunDB, error) {
	var runs []RunDB
	if err := db.conn.Order("id desc").Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Successes returns the successes recorded for a run.
func (db *DB) Successes(runID uint) ([]SuccessDB, error) {
	var run RunDB
	if err := db.conn.First(&run, runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	var successes []SuccessDB
	if err := db.conn.Where("run_id = ?", runID).Order("id").Find(&successes).Error; err != nil {
		return nil, err
	}
	return successes, nil
}
