package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/trezcool/shule/core"
)

// gormWriter sends the gorm logs to the DB logger.
type gormWriter struct {
	log core.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Debug(fmt.Sprintf(format, args...))
}

// OpenGorm wraps the opened database in a gorm session.
func OpenGorm(db *sql.DB, conf *core.Config, log core.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if conf.Database.IsSQLite() {
		dialector = &sqlite.Dialector{Conn: db}
	} else {
		dialector = postgres.New(postgres.Config{Conn: db})
	}

	level := gormlogger.Warn
	switch {
	case conf.TestMode:
		level = gormlogger.Silent
	case conf.Debug:
		level = gormlogger.Info
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: core.Now,
		Logger: gormlogger.New(gormWriter{log: log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening gorm session")
	}
	return gdb, nil
}
