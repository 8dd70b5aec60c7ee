package main

import (
	"github.com/spf13/cobra"
)

func (cli *commandLine) resetPasswordCmd() *cobra.Command {
	var uname string

	cmd := &cobra.Command{
		Use:   "resetpassword",
		Short: "Reset a user's password. The password will be prompted next.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uname == "" {
				_ = cmd.Usage()
				return errHelp
			}
			pwd, err := cli.promptPassword(cmd)
			if err != nil {
				return err
			}
			_, err = cli.usrSvc.ResetPassword(cmd.Context(), uname, pwd)
			return err
		},
	}
	cmd.Flags().StringVar(&uname, "username", "", "The user's username or email")
	return cmd
}
