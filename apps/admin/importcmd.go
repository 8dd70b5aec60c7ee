package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/shule/core/timetable"
)

func (cli *commandLine) importCmd() *cobra.Command {
	var file string
	var strict bool

	cmd := &cobra.Command{
		Use:   "import-subject-teachers",
		Short: "Import classroom subject teachers from a CSV file (classroom,subject,teacher,weekly_classes)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				_ = cmd.Usage()
				return errHelp
			}
			f, err := os.Open(file)
			if err != nil {
				return errors.Wrap(err, "opening file")
			}
			defer func() { _ = f.Close() }()

			rows, err := timetable.ParseCSV(f)
			if err != nil {
				return err
			}
			mode := "" // configured default
			if strict {
				mode = timetable.ModeStrict
			}
			res, err := cli.importer.Import(cmd.Context(), rows, mode)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cli.out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "The CSV file to import")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject the whole file when a row does not resolve")
	return cmd
}
