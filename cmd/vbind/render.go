package main

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/instrument"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/render"
)

type renderOptions struct {
	data     string
	el       string
	sets     []string
	inputs   []string
	clicks   []string
	pretty   bool
	document bool
	keep     bool
}

func renderCmd(c *cli) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render TEMPLATE",
		Short: "Bind data to a template and print the result",
		Long: `Mount a template, apply writes and simulated events, and print the
resulting HTML.

TEMPLATE and --data accept a file path, - for stdin, or s3://bucket/key.
Steps run in a fixed order: every --set, then every --input, then every
--click. --set values are JSON when they parse as JSON and strings
otherwise.

Examples:
  vbind render page.html --data data.json
  vbind render page.html --set count=5 --set name=Ada
  vbind render page.html --input 'input[name=q]=hello' --click button
  vbind render s3://site/pages/index.html --pretty --document`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.data, "data", "d", "", "JSON data document")
	flags.StringVar(&opts.el, "el", "", "Mount selector (default from config)")
	flags.StringArrayVar(&opts.sets, "set", nil, "Write key=value after mounting (repeatable)")
	flags.StringArrayVar(&opts.inputs, "input", nil, "Type value into selector=value (repeatable)")
	flags.StringArrayVar(&opts.clicks, "click", nil, "Click the element matching selector (repeatable)")
	flags.BoolVar(&opts.pretty, "pretty", false, "Indent the output")
	flags.BoolVar(&opts.document, "document", false, "Print the whole document, not just the mount element")
	flags.BoolVar(&opts.keep, "keep-directives", false, "Keep @event and v-model attributes")

	return cmd
}

func (c *cli) runRender(cmd *cobra.Command, ref string, opts renderOptions) error {
	// Validate flags before touching any source.
	sets, err := parseAssignments("set", opts.sets)
	if err != nil {
		return err
	}
	inputs, err := parseAssignments("input", opts.inputs)
	if err != nil {
		return err
	}

	vm, err := c.mount(cmd, ref, opts.data, opts.el, c.hooks())
	if err != nil {
		return err
	}

	for _, a := range sets {
		if err := vm.Set(a.Name, decodeValue(a.Value)); err != nil {
			return errors.FromSet(err).WithLocation(ref, a.Name)
		}
	}
	for _, a := range inputs {
		if err := vm.Input(a.Name, a.Value); err != nil {
			return fmt.Errorf("--input %s: %w", a.Name, err)
		}
	}
	for _, sel := range opts.clicks {
		if err := vm.Click(sel); err != nil {
			return fmt.Errorf("--click %s: %w", sel, err)
		}
	}

	rc := render.RendererConfig{
		Pretty:          opts.pretty || c.cfg.Render.Pretty,
		Indent:          c.cfg.Render.Indent,
		StripDirectives: c.cfg.Render.StripDirectives && !opts.keep,
	}
	var out string
	if opts.document {
		out, err = vm.RenderDocument(rc)
	} else {
		out, err = vm.Render(rc)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// mount loads the template and data and mounts a VM.
func (c *cli) mount(cmd *cobra.Command, ref, dataRef, el string, hooks reactive.Hooks) (*vbind.VM, error) {
	doc, data, err := c.load(cmd, ref, dataRef)
	if err != nil {
		return nil, err
	}
	if el == "" {
		el = c.cfg.Render.El
	}
	return vbind.New(doc, vbind.Options{
		El:     el,
		Data:   data,
		Source: ref,
		Logger: c.logger,
		Hooks:  hooks,
	})
}

func (c *cli) load(cmd *cobra.Command, ref, dataRef string) (*dom.Node, map[string]any, error) {
	ctx := cmd.Context()

	raw, err := c.loader.ReadAll(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	doc, err := dom.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, errors.New("E030").WithLocation(ref, "").Wrap(err)
	}

	data := map[string]any{}
	if dataRef != "" {
		data, err = c.loader.LoadData(ctx, dataRef)
		if err != nil {
			return nil, nil, err
		}
	}
	return doc, data, nil
}

// hooks returns the instrumentation enabled by config.
func (c *cli) hooks() reactive.Hooks {
	hooks := []reactive.Hooks{instrument.Logging(c.logger, slog.LevelDebug)}
	if c.cfg.Tracing.Enabled {
		hooks = append(hooks, instrument.OpenTelemetry(instrument.WithTracerName(c.cfg.Tracing.Tracer)))
	}
	return reactive.ChainHooks(hooks...)
}
