package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bindery/internal/config"
	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/internal/watch"
	"github.com/vango-dev/bindery/pkg/dom"
	"github.com/vango-dev/bindery/pkg/publish"
)

type renderOptions struct {
	template string
	data     string
	output   string
	publish  string
	watch    bool
	pretty   bool
	strip    bool
}

func renderCmd(configPath *string) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a template with data",
		Long: `Render binds a template to a data file and writes the resulting HTML.

Data files are JSON (.json) or YAML (anything else). With --publish the
output is also stored in S3 (s3://bucket/key) or at a local path. With
--watch the document is re-rendered whenever the template or the data
changes.

Examples:
  bindery render -t page.html -d data.yaml
  bindery render -t page.html -d data.json -o out/index.html --pretty
  bindery render -t page.html -d data.yaml --publish s3://my-site/index.html
  bindery render -t page.html -d data.yaml -o index.html --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if opts.pretty {
				cfg.Render.Pretty = true
			}
			if opts.strip {
				cfg.Render.StripDirectives = true
			}
			if !opts.watch {
				return renderOnce(cmd.Context(), cfg, opts, cmd.OutOrStdout())
			}
			return renderWatch(cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "HTML template file")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "JSON or YAML data file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&opts.publish, "publish", "", "Publish target: s3://bucket/key or a file path")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-render on template or data changes")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the output")
	cmd.Flags().BoolVar(&opts.strip, "strip", false, "Omit binding directives from the output")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func renderOnce(ctx context.Context, cfg *config.Config, opts renderOptions, stdout io.Writer) error {
	doc, err := bindFiles(cfg, opts.template, opts.data)
	if err != nil {
		return err
	}
	if doc.warnings != nil {
		errors.PrintError(os.Stderr, doc.warnings)
	}

	html, err := dom.RenderString(doc.root, renderConfig(cfg, doc.core))
	if err != nil {
		return err
	}

	if opts.output == "" {
		if _, err := io.WriteString(stdout, html); err != nil {
			return err
		}
	} else {
		if dir := filepath.Dir(opts.output); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(opts.output, []byte(html), 0644); err != nil {
			return err
		}
		success("Rendered %s", opts.output)
	}

	if opts.publish != "" {
		loc, err := publishHTML(ctx, cfg, opts.publish, []byte(html))
		if err != nil {
			return err
		}
		success("Published %s", loc)
	}
	return nil
}

// publishHTML stores html at target, an s3:// URL or a path below the
// configured publish directory.
func publishHTML(ctx context.Context, cfg *config.Config, target string, html []byte) (string, error) {
	t, err := publish.ParseTarget(target)
	if err != nil {
		return "", err
	}
	var p publish.Publisher
	if t.IsS3() {
		client := publish.NewClient(publish.ClientConfig{
			Region:   cfg.Publish.Region,
			Endpoint: cfg.Publish.Endpoint,
		})
		p = publish.NewS3(client, t.Bucket, cfg.Publish.Prefix)
	} else {
		p = publish.NewDir(cfg.Publish.Dir)
	}
	return p.Publish(ctx, t.Key, "text/html; charset=utf-8", html)
}

func renderWatch(cfg *config.Config, opts renderOptions, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := renderOnce(ctx, cfg, opts, stdout); err != nil {
		errors.PrintError(os.Stderr, err)
	}

	files := []string{opts.template}
	if opts.data != "" {
		files = append(files, opts.data)
	}
	w := watch.NewWatcher(watch.Config{Files: files})
	w.OnChange(func(paths []string) {
		slog.Debug("sources changed", "paths", paths)
		if err := renderOnce(ctx, cfg, opts, stdout); err != nil {
			errors.PrintError(os.Stderr, err)
		}
	})

	info("Watching %d files, press Ctrl+C to stop", len(files))
	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	fmt.Println()
	return nil
}
