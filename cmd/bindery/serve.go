package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/bind"
	"github.com/vango-dev/bindery/pkg/metrics"
	"github.com/vango-dev/bindery/pkg/server"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		template string
		data     string
		host     string
		port     int
		noLive   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a bound document and accept live updates",
		Long: `Serve binds a template to data and serves it over HTTP.

Clients connected to /ws send operations that mutate the data; every
change is re-rendered and broadcast to all connected clients.

  {"id":1,"op":"set","values":{"title":"Hello"}}
  {"id":2,"op":"push","ref":"items","items":["c"]}
  {"id":3,"op":"move","ref":"items","from":0,"to":2}

Routes:
  GET /         rendered document
  GET /data     current data as JSON
  GET /ws       websocket operation channel
  GET /metrics  Prometheus metrics

Examples:
  bindery serve -t page.html -d data.yaml
  bindery serve -t page.html -d data.json --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if template == "" {
				template = cfg.Serve.Template
			}
			if data == "" {
				data = cfg.Serve.Data
			}
			if template == "" {
				return errors.New("B400").WithDetail("no template given, use --template or serve.template")
			}
			if host != "" {
				cfg.Serve.Host = host
			}
			if port != 0 {
				cfg.Serve.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m := metrics.New(metrics.WithRegistry(reg))

			doc, err := bindFiles(cfg, template, data, bind.WithObserver(m))
			if err != nil {
				return err
			}
			if doc.warnings != nil {
				errors.PrintError(os.Stderr, doc.warnings)
			}

			srv := server.New(
				server.NewDocument(doc.root, doc.core, renderConfig(cfg, doc.core)),
				&server.Config{
					Address:     cfg.Address(),
					ReadTimeout: cfg.ReadTimeout(),
					LiveScript:  !noLive,
					Metrics:     m,
					Gatherer:    reg,
				},
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success("Serving %s on http://%s", template, cfg.Address())
			info("Press Ctrl+C to stop")
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "HTML template file (default: serve.template)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON or YAML data file (default: serve.data)")
	cmd.Flags().StringVar(&host, "host", "", "Host to bind to (default: serve.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default: serve.port)")
	cmd.Flags().BoolVar(&noLive, "no-live", false, "Do not inject the live-update script")

	return cmd
}
