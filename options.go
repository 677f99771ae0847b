package vbind

import (
	"log/slog"

	"github.com/vango-dev/vbind/pkg/reactive"
)

// DefaultEl is the mount selector used when Options.El is empty.
const DefaultEl = "#app"

// Options configures a VM.
type Options struct {
	// El selects the mount element. Default: "#app".
	El string

	// Data is the initial data object. Its keys are the only keys the VM
	// will ever track.
	Data map[string]any

	// Methods are the handlers @event attributes may name.
	Methods map[string]Method

	// Source names the template in error messages.
	Source string

	// Logger is the structured logger for the VM.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Hooks instrument store operations. See pkg/instrument.
	Hooks reactive.Hooks
}

func (o Options) withDefaults() Options {
	if o.El == "" {
		o.El = DefaultEl
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Data == nil {
		o.Data = map[string]any{}
	}
	return o
}
