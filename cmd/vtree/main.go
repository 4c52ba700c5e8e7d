package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┌┬┐┬─┐┌─┐┌─┐
  ╚╗╔╝ │ ├┬┘├┤ ├┤
   ╚╝  ┴ ┴└─└─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "vtree",
		Short: "A virtual-DOM diffing engine and its operating shell",
		Long: `vtree computes minimal patch sets between two node trees.

  • diff  — compute a patch between two JSON-encoded trees
  • serve — run the HTTP/WebSocket diff transport
  • version — print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		diffCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the vtree ASCII art banner.
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
