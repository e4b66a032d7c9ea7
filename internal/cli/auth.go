package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the server",
	Long: `Authenticate against the code review server.

Without --token, prints the server's GitHub authorization URL: open it
in a browser, complete the flow and pass the returned token back via
--token to store it in the active profile.`,
	RunE: runLogin,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active profile and server reachability",
	RunE:  runStatus,
}

func init() {
	loginCmd.Flags().StringVarP(&loginToken, "token", "t", "", "session token returned by the OAuth callback")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	profile, err := GetCurrentProfile()
	if err != nil {
		return err
	}

	if loginToken == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Open the following URL in a browser to authenticate:\n\n")
		fmt.Fprintf(cmd.OutOrStdout(), "  %s/api/auth/github\n\n", profile.ServerURL)
		fmt.Fprintf(cmd.OutOrStdout(), "Then store the returned token with: %s login --token <token>\n", applicationName)
		return nil
	}

	profile.Token = loginToken
	if err := SetProfile(*profile); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Token stored in profile %q\n", profile.Name)
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	profile, err := GetCurrentProfile()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile: %s\n", profile.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "Server:  %s\n", profile.ServerURL)
	if profile.Token == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Token:   not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Token:   set")
	}

	client := NewAPIClientFromProfile(profile)
	if err := client.Ping(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Server:  unreachable (%v)\n", err)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Server:  reachable")
	return nil
}
