package di

import (
	"database/sql"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/database"
	"github.com/trezcool/shule/storage/database/gormdb"
)

// SetUpDB creates, opens and migrates the application database.
// Postgres runs the embedded goose migrations; sqlite is auto-migrated.
func SetUpDB(conf *core.Config, log core.Logger) (*sql.DB, *gorm.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, nil, err
	}
	gdb, err := database.OpenGorm(db, conf, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	if conf.Database.IsSQLite() {
		err = gormdb.AutoMigrate(gdb)
	} else {
		err = database.Migrate(db, "up")
	}
	if err != nil {
		_ = db.Close()
		return nil, nil, errors.Wrap(err, "migrating database")
	}
	return db, gdb, nil
}
