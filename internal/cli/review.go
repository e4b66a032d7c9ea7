package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	reviewLanguage string
	reviewContext  string
)

var reviewCmd = &cobra.Command{
	Use:   "review <file>",
	Short: "Submit a file for AI review",
	Long: `Submit a source file for AI code review.

The language is inferred from the file extension unless --language is
given. The generated review is printed to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewLanguage, "language", "l", "", "language of the submitted code")
	reviewCmd.Flags().StringVarP(&reviewContext, "context", "c", "", "additional context for the reviewer")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	path := args[0]
	code, err := os.ReadFile(path) //nolint:gosec // user-supplied file is the point
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	language := reviewLanguage
	if language == "" {
		language = languageFromExtension(path)
	}
	if language == "" {
		return fmt.Errorf("cannot infer language for %s, pass --language", path)
	}

	profile, err := GetCurrentProfile()
	if err != nil {
		return err
	}

	client := NewAPIClientFromProfile(profile)
	review, err := client.AnalyzeCode(cmd.Context(), string(code), language, reviewContext)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), review)
	return nil
}

// languageFromExtension maps common file extensions to language names.
func languageFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".js", ".mjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".py":
		return "python"
	case ".rb":
		return "ruby"
	case ".rs":
		return "rust"
	case ".java":
		return "java"
	case ".c", ".h":
		return "c"
	case ".cpp", ".cc", ".hpp":
		return "cpp"
	case ".cs":
		return "csharp"
	case ".sh":
		return "shell"
	case ".sql":
		return "sql"
	default:
		return ""
	}
}
