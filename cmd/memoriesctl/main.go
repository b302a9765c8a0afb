package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	gmailv1 "google.golang.org/api/gmail/v1"
)

var (
	userFlag string
	rootCmd  = &cobra.Command{
		Use:   "memoriesctl",
		Short: "Admin CLI for the mail-memories credential store and pipeline",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")

	connectCmd := &cobra.Command{
		Use:   "connect",
		Short: "Link a Google credential to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			accessToken, _ := cmd.Flags().GetString("access-token")
			refreshToken, _ := cmd.Flags().GetString("refresh-token")
			scope, _ := cmd.Flags().GetString("scope")
			expiresIn, _ := cmd.Flags().GetInt("expires-in")
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runConnect(userFlag, accessToken, refreshToken, scope, expiresIn, os.Stdout)
		},
	}
	connectCmd.Flags().String("access-token", "", "OAuth access token (optional)")
	connectCmd.Flags().String("refresh-token", "", "OAuth refresh token")
	connectCmd.Flags().String("scope", gmailv1.GmailReadonlyScope, "Granted OAuth scope")
	connectCmd.Flags().Int("expires-in", 3600, "Access token lifetime in seconds")
	rootCmd.AddCommand(connectCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored credential for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runStatus(userFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(statusCmd)

	disconnectCmd := &cobra.Command{
		Use:   "disconnect",
		Short: "Unlink the Google credential from a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runDisconnect(userFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(disconnectCmd)

	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Fetch today's memories for a user against live Gmail",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			return runToday(userFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(todayCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
