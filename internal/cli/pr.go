package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var prJSON bool

var prCmd = &cobra.Command{
	Use:   "pr <owner> <repo> <number>",
	Short: "Show a pull request through the server proxy",
	Args:  cobra.ExactArgs(3),
	RunE:  runPR,
}

func init() {
	prCmd.Flags().BoolVar(&prJSON, "json", false, "print the raw JSON payload")
	rootCmd.AddCommand(prCmd)
}

func runPR(cmd *cobra.Command, args []string) error {
	number, err := strconv.Atoi(args[2])
	if err != nil || number <= 0 {
		return fmt.Errorf("invalid pull request number %q", args[2])
	}

	profile, err := GetCurrentProfile()
	if err != nil {
		return err
	}

	client := NewAPIClientFromProfile(profile)
	data, err := client.GetPullRequest(cmd.Context(), args[0], args[1], number)
	if err != nil {
		return err
	}

	if prJSON {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	printPullRequest(cmd, data)
	return nil
}

// printPullRequest renders a short human-readable summary.
func printPullRequest(cmd *cobra.Command, data map[string]interface{}) {
	pr, _ := data["pullRequest"].(map[string]interface{})
	if pr != nil {
		if title, ok := pr["title"].(string); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Title: %s\n", title)
		}
		if state, ok := pr["state"].(string); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "State: %s\n", state)
		}
		if number, ok := pr["number"].(float64); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Number: %d\n", int(number))
		}
	}

	files, _ := data["files"].([]interface{})
	if len(files) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Files (%d):\n", len(files))
		for _, f := range files {
			file, ok := f.(map[string]interface{})
			if !ok {
				continue
			}
			name, _ := file["filename"].(string)
			status, _ := file["status"].(string)
			fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %s\n", status, name)
		}
	}
}
