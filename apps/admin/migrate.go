package main

import (
	"github.com/spf13/cobra"

	"github.com/trezcool/shule/storage/database"
)

var gooseRunFunc = database.Migrate // mockable

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "migrate COMMAND [ARGS...]",
		Short:              "Run a goose command (up, up-by-one, up-to, down, down-to, redo, reset, status, version, create, fix)",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return errHelp
			}
			return gooseRunFunc(cli.db, args[0], args[1:]...)
		},
	}
}
