package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trezcool/shule/core/user"
)

func (cli *commandLine) addUserCmd() *cobra.Command {
	var nu user.NewUser
	var isAdmin bool

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a user. The password will be prompted next.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if nu.Name == "" || (nu.Username == "" && nu.Email == "") {
				_ = cmd.Usage()
				return errHelp
			}
			pwd, err := cli.promptPassword(cmd)
			if err != nil {
				return err
			}
			nu.Password = pwd
			nu.PasswordConfirm = pwd
			if isAdmin {
				nu.Roles = []string{user.RoleAdmin}
			}

			usr, err := cli.usrSvc.Create(cmd.Context(), nu)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "user %d created\n", usr.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&nu.Name, "name", "", "The user's full name")
	cmd.Flags().StringVar(&nu.Username, "username", "", "The user's username")
	cmd.Flags().StringVar(&nu.Email, "email", "", "The user's email")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "Grant every admin role")
	return cmd
}
