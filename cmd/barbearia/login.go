package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rfmelo/barbearia-client/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Authenticate and store the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]

		fmt.Fprint(os.Stderr, "Senha: ")
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(password, "\r\n")

		client := api.NewClient(cfg.Server.BaseURL, api.WithTimeout(cfg.Server.Timeout), api.WithLogger(logger))
		res, err := client.Users.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}

		token := res.Token
		if token == "" {
			token = client.SessionToken()
		}
		if token == "" {
			return fmt.Errorf("server returned no session token")
		}
		if err := authStore.SaveToken(token); err != nil {
			return err
		}

		fmt.Printf("Conectado como %s (%s)\n", res.User.Name, res.User.Role)
		return nil
	},
}

var (
	registerPhone string
	registerRole  string
)

var registerCmd = &cobra.Command{
	Use:   "register <name> <email>",
	Short: "Create an account and log it in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, email := args[0], args[1]
		if registerRole != "cliente" && registerRole != "barbeiro" {
			return fmt.Errorf("invalid role %q, want cliente or barbeiro", registerRole)
		}

		fmt.Fprint(os.Stderr, "Senha: ")
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(password, "\r\n")

		client := api.NewClient(cfg.Server.BaseURL, api.WithTimeout(cfg.Server.Timeout), api.WithLogger(logger))
		res, err := client.Users.Register(cmd.Context(), name, email, password, registerPhone, registerRole)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}

		token := res.Token
		if token == "" {
			token = client.SessionToken()
		}
		if token != "" {
			if err := authStore.SaveToken(token); err != nil {
				return err
			}
		}

		fmt.Printf("Conta criada: %s (%s)\n", res.User.Name, res.User.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient()
		if err := client.Users.Logout(cmd.Context()); err != nil {
			// The local token is discarded either way.
			logger.Warn("server logout failed", "error", err)
		}
		return authStore.Clear()
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerPhone, "phone", "", "contact phone number")
	registerCmd.Flags().StringVar(&registerRole, "role", "cliente", "account role (cliente or barbeiro)")
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}
