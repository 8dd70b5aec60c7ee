package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/shule/apps/di"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/database"
)

func main() {
	conf := core.NewConfig()

	logger, err := logsvc.NewRollbarLogger("ADMIN", conf)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	logger.Enable(!conf.Debug)

	// set up DB, migrations are left to the migrate command
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	gdb, err := database.OpenGorm(db, conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	if err := user.LoadCommonPasswords(conf.Passwords.CommonListPath); err != nil {
		logger.Warn(fmt.Sprintf("loading common passwords: %v", err), err)
	}

	svcs := di.NewServices(di.Deps{
		Conf:     conf,
		DB:       gdb,
		Validate: di.NewValidator(gdb, di.NewTranslator()),
	})

	// start CLI
	cli := commandLine{
		db:       db,
		usrSvc:   svcs.Users,
		importer: svcs.Importer,
		out:      os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	logger.Sync()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
