package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┌─┐┌─┐┌┬┐┌─┐┬─┐
  ├┬┘├┤ ├─┤│   │ │ │├┬┘
  ┴└─└─┘┴ ┴└─┘ ┴ └─┘┴└─
`

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "reactor",
		Short: "Reactive engine and keyed diff toolkit",
		Long: `reactor drives a fine-grained reactive engine and a virtual-node
patcher over an in-memory host tree.

  • diff: show the host operations a keyed list change costs
  • bench: patch shuffled keyed lists and report op counts
  • demo: interactive terminal demo of batched re-renders
  • serve: dev server with the live tree, op stream and metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to reactor.toml (default: nearest in parent directories)")

	rootCmd.AddCommand(
		diffCmd(),
		benchCmd(),
		demoCmd(&configPath),
		serveCmd(&configPath),
		versionCmd(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.FprintError(os.Stderr, err)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("%s %s\n", warnStyle.Render("⚠"), fmt.Sprintf(format, args...))
}
