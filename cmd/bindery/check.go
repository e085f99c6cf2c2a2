package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bindery/internal/errors"
)

func checkCmd(configPath *string) *cobra.Command {
	var (
		data      string
		templates []string
	)

	cmd := &cobra.Command{
		Use:   "check [template]...",
		Short: "Validate the binding directives of templates",
		Long: `Check parses every binding directive in the given templates and
reports the ones that would be skipped, with their element and attribute.

Examples:
  bindery check page.html
  bindery check -t page.html -d data.yaml
  bindery check -d data.yaml pages/*.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := append(templates, args...)
			if len(paths) == 0 {
				return fmt.Errorf("no templates given")
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			failed := 0
			for _, path := range paths {
				doc, err := bindFiles(cfg, path, data)
				if err != nil {
					return err
				}
				if doc.warnings == nil {
					success("%s: %d bindings", path, doc.core.Size())
					continue
				}
				n := countErrors(doc.warnings)
				failed += n
				warn("%s: %d invalid directives", path, n)
				errors.PrintError(os.Stderr, doc.warnings)
			}
			if failed > 0 {
				return fmt.Errorf("%d invalid directives", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&templates, "template", "t", nil, "HTML template file")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Data file used to resolve nested scopes")

	return cmd
}

// countErrors counts the leaves of a joined error.
func countErrors(err error) int {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return 1
	}
	n := 0
	for _, e := range joined.Unwrap() {
		n += countErrors(e)
	}
	return n
}
