package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hackathon-portal/internal/client"
)

var signup client.SignupRequest

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and start a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if signup.Password == "" {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			signup.Password = password
		}
		res, err := newAPI(cmd).Signup(cmd.Context(), signup)
		if err != nil {
			return describe(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Message, res.User.Email)
		return nil
	},
}

var (
	signinEmail    string
	signinPassword string
)

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and store the session tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		if signinPassword == "" {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			signinPassword = password
		}
		res, err := newAPI(cmd).Signin(cmd.Context(), signinEmail, signinPassword)
		if err != nil {
			return describe(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Message, res.User.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the refresh token and forget the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newAPI(cmd).Logout(cmd.Context()); err != nil {
			return describe(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "signed out")
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&signup.FirstName, "first-name", "", "first name")
	signupCmd.Flags().StringVar(&signup.LastName, "last-name", "", "last name")
	signupCmd.Flags().StringVar(&signup.Email, "email", "", "email address")
	signupCmd.Flags().StringVar(&signup.Password, "password", "", "password (read from stdin when empty)")
	signupCmd.Flags().StringVar(&signup.Username, "username", "", "optional username")
	signupCmd.Flags().StringVar(&signup.PhoneNumber, "phone", "", "optional phone number")
	signupCmd.Flags().StringVar(&signup.Gender, "gender", "", "optional gender: Male, Female or Other")

	signinCmd.Flags().StringVar(&signinEmail, "email", "", "email address")
	signinCmd.Flags().StringVar(&signinPassword, "password", "", "password (read from stdin when empty)")
	_ = signinCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(signupCmd, signinCmd, logoutCmd)
}

func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
