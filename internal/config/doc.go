// Package config loads vbind settings.
//
// Settings come from, in increasing priority: built-in defaults, a config
// file (vbind.json, vbind.yaml or vbind.toml in the working directory, or
// the file named by --config / VBIND_CONFIG), and VBIND_* environment
// variables. Nested keys map to env names with "." replaced by "_", so
// serve.addr is VBIND_SERVE_ADDR.
//
// # Configuration File Structure
//
//	log:
//	  level: info        # debug, info, warn, error
//	  format: text       # text or json
//	render:
//	  el: "#app"
//	  pretty: false
//	  indent: "  "
//	  strip_directives: true
//	metrics:
//	  enabled: true
//	  namespace: vbind
//	  path: /metrics
//	tracing:
//	  enabled: false
//	  tracer: vbind
//	serve:
//	  addr: localhost:3000
//	source:
//	  s3_region: us-east-1
//	  s3_endpoint: ""
//	  s3_path_style: false
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger, _ := cfg.Log.NewLogger(os.Stderr)
package config
