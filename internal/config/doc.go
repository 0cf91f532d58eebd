// Package config provides configuration parsing for elementary projects.
//
// The configuration is stored in elementary.json or elementary.yaml at the
// project root. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	server:
//	  host: localhost
//	  port: 3000
//	  shutdownTimeout: 5s
//	templates:
//	  dir: templates
//	  watch: true
//	render:
//	  maxDepth: 256
//	  annotateExpressions: false
//	  expressionPlaceholder: ""
//	metrics:
//	  enabled: true
//	  path: /metrics
//	tracing:
//	  enabled: false
//	log:
//	  level: info
//	  format: text
//
// Missing fields take defaults; relative paths are resolved against the
// directory holding the file.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
