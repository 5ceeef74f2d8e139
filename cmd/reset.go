package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset [email]",
	Short: "Delete an account with its plans and saved exams",
	Long: "Delete an account together with its plans and mock exam progress. " +
		"Without an email the logged-in account is deleted.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		email := ""
		if len(args) == 1 {
			email = args[0]
		} else {
			u, err := env.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			email = u.Email
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("esta ação não pode ser desfeita: repita com --yes para confirmar")
		}
		if err := env.svc.Accounts.Delete(cmd.Context(), email); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Conta %s e seus dados foram removidos.\n", email)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the deletion")
}
