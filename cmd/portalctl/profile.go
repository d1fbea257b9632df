package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hackathon-portal/internal/client"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the signed-in profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := newAPI(cmd).Me(cmd.Context())
		if err != nil {
			return describe(err)
		}
		return printJSON(cmd.OutOrStdout(), user)
	},
}

var update client.ProfileUpdate

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change profile fields; omitted flags are left untouched",
	RunE: func(cmd *cobra.Command, args []string) error {
		if update == (client.ProfileUpdate{}) {
			return fmt.Errorf("nothing to update")
		}
		user, err := newAPI(cmd).UpdateMe(cmd.Context(), update)
		if err != nil {
			return describe(err)
		}
		return printJSON(cmd.OutOrStdout(), user)
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "List recent account activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := newAPI(cmd).Activity(cmd.Context())
		if err != nil {
			return describe(err)
		}
		for _, a := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-14s %s\n", a.CreatedAt.Local().Format("2006-01-02 15:04"), a.Type, a.Description)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&update.FirstName, "first-name", "", "new first name")
	updateCmd.Flags().StringVar(&update.LastName, "last-name", "", "new last name")
	updateCmd.Flags().StringVar(&update.Email, "email", "", "new email address")
	updateCmd.Flags().StringVar(&update.PhoneNumber, "phone", "", "new phone number")
	updateCmd.Flags().StringVar(&update.Gender, "gender", "", "new gender: Male, Female or Other")

	rootCmd.AddCommand(meCmd, updateCmd, activityCmd)
}
