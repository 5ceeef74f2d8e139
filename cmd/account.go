package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Sign up, log in and manage the saved session",
}

var accountSignupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		name, _ := cmd.Flags().GetString("name")
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		u, err := env.svc.Accounts.SignUp(cmd.Context(), args[0], name, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Conta criada. Olá, %s!\n", u.DisplayName())
		return nil
	},
}

var accountLoginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and keep the session for the next runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		u, err := env.svc.Accounts.LogIn(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Olá, %s!\n", u.DisplayName())
		return nil
	},
}

var accountLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.svc.Accounts.LogOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada.")
		return nil
	},
}

var accountWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		u, err := env.requireUser(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", u.DisplayName(), u.Email)
		return nil
	},
}

// readPassword takes --password, or reads one line from stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("password"); p != "" {
		return p, nil
	}
	if stderrIsTerminal() {
		fmt.Fprint(cmd.ErrOrStderr(), "Senha: ")
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	accountSignupCmd.Flags().String("name", "", "Display name")
	for _, c := range []*cobra.Command{accountSignupCmd, accountLoginCmd} {
		c.Flags().String("password", "", "Password (read from stdin when omitted)")
	}

	accountCmd.AddCommand(accountSignupCmd)
	accountCmd.AddCommand(accountLoginCmd)
	accountCmd.AddCommand(accountLogoutCmd)
	accountCmd.AddCommand(accountWhoamiCmd)
}
