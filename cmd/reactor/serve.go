package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor"
	"github.com/vango-dev/reactor/internal/demo"
	"github.com/vango-dev/reactor/internal/devserver"
	"github.com/vango-dev/reactor/pkg/host/memdom"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		addr  string
		items int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dev server",
		Long: `Mount the demo list and serve it over HTTP.

Routes:
  GET  /tree                  current tree as HTML
  GET  /ws                    WebSocket stream of host operations
  POST /dispatch/{id}/{event} run a node's event handler and flush
  GET  /metrics               Prometheus metrics

Examples:
  reactor serve
  reactor serve --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				fc.Serve.Addr = addr
			}

			cfg := reactor.ConfigFromFile(fc)
			doc := memdom.New()
			cfg.Host = doc
			app := reactor.New(cfg)

			// Process metrics come from the default registry, engine
			// metrics from the app's own.
			gatherers := prometheus.Gatherers{prometheus.DefaultGatherer}
			if g := app.Gatherer(); g != nil {
				gatherers = append(gatherers, g)
			}
			srv := devserver.New(doc,
				devserver.WithFlush(app.Flush),
				devserver.WithGatherer(gatherers),
				devserver.WithLogger(cfg.Logger),
			)
			todos := demo.NewTodos(items)
			srv.Do(func() { app.Mount(todos.Component(), nil, nil) })

			printBanner()
			success("serving on http://%s", fc.Serve.Addr)
			info("tree:    http://%s/tree", fc.Serve.Addr)
			info("stream:  ws://%s/ws", fc.Serve.Addr)
			if fc.Metrics.Enabled {
				info("metrics: http://%s/metrics", fc.Serve.Addr)
			} else {
				warn("metrics disabled in config")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return srv.ListenAndServe(ctx, fc.Serve.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from reactor.toml)")
	cmd.Flags().IntVarP(&items, "items", "n", 5, "Initial number of items")

	return cmd
}
