package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/pkg/instrument"
	"github.com/vango-dev/vbind/pkg/live"
	"github.com/vango-dev/vbind/pkg/reactive"
)

func serveCmd(c *cli) *cobra.Command {
	var (
		data string
		el   string
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve TEMPLATE",
		Short: "Serve a live preview of a template",
		Long: `Serve a template as a live page.

Browser events are forwarded to the server, which runs the bound
methods and pushes the affected nodes back over WebSocket. Data can
also be written from outside:

  curl -X POST localhost:3000/api/data/count -d 5

Examples:
  vbind serve page.html --data data.json
  vbind serve page.html --addr 0.0.0.0:8080`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Serve.Addr = addr
			}
			return c.runServe(cmd, args[0], data, el)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON data document")
	cmd.Flags().StringVar(&el, "el", "", "Mount selector (default from config)")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}

func (c *cli) runServe(cmd *cobra.Command, ref, dataRef, el string) error {
	server, err := c.newLiveServer(cmd, ref, dataRef, el)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	success(cmd.ErrOrStderr(), "Serving %s at http://%s", ref, c.cfg.Serve.Addr)
	return server.Start(ctx)
}

func (c *cli) newLiveServer(cmd *cobra.Command, ref, dataRef, el string) (*live.Server, error) {
	doc, data, err := c.load(cmd, ref, dataRef)
	if err != nil {
		return nil, err
	}
	if el == "" {
		el = c.cfg.Render.El
	}

	cfg := live.Config{
		Addr:   c.cfg.Serve.Addr,
		Logger: c.logger,
	}
	hooks := c.hooks()
	if c.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := instrument.NewMetrics(
			instrument.WithRegistry(reg),
			instrument.WithNamespace(c.cfg.Metrics.Namespace),
		)
		hooks = reactive.ChainHooks(hooks, metrics.Hooks())
		cfg.Metrics = metrics
		cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		cfg.MetricsPath = c.cfg.Metrics.Path
	}

	return live.New(doc, vbind.Options{
		El:     el,
		Data:   data,
		Source: ref,
		Logger: c.logger,
		Hooks:  hooks,
	}, cfg)
}
