package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elementary-go/elementary/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬  ┌─┐┌┬┐┌─┐┌┐┌┌┬┐┌─┐┬─┐┬ ┬
  ├┤ │  ├┤ │││├┤ │││ │ ├─┤├┬┘└┬┘
  └─┘┴─┘└─┘┴ ┴└─┘┘└┘ ┴ ┴ ┴┴└─ ┴
`

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "elementary",
		Short: "Render component templates to HTML",
		Long: `Elementary renders HTML templates built from reusable components.

Pages live in templates/pages, markup components in templates/components.
A component is used in a page by its file name:

  <card title="{{ post.title }}">{{ post.body }}</card>

Commands render a single page to a file or serve every page over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		renderCmd(),
		serveCmd(),
		versionCmd(),
	)
	return root
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
