package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bindery/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
		noColor    bool
	)

	root := &cobra.Command{
		Use:   "bindery",
		Short: "Bind HTML documents to data",
		Long: `bindery keeps the attributes and properties of an HTML document in
sync with a data object. Bindings are declared in the markup:

  <h1 b-text="title"></h1>
  <a href.attr="link">...</a>
  <ul b-iter="items"><li b-text="item.name"></li></ul>

Render a document once, watch its sources, or serve it live and
mutate the data over a websocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			if noColor {
				errors.DisableColors()
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: bindery.json or bindery.yaml in the working directory)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored error output")

	root.AddCommand(
		renderCmd(&configPath),
		serveCmd(&configPath),
		checkCmd(&configPath),
		versionCmd(),
	)
	return root
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
