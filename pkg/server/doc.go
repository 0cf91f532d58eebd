// Package server serves template pages over HTTP.
//
// Each request lowers the requested page into a fresh component store,
// renders it and wraps the result in a document shell. The router is chi,
// with request ids, structured request logs, panic recovery and optional
// Prometheus metrics and OpenTelemetry tracing.
//
//	set, err := lower.LoadDir("templates")
//	if err != nil {
//	    return err
//	}
//	srv, err := server.New(set, server.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	return srv.ListenAndServe(ctx, ":3000")
//
// Reload swaps the template set atomically, which lets a file watcher
// refresh pages without restarting.
package server
