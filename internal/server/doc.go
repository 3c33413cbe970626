// Package server hosts the HTTP surface of the chatops processor.
//
// A ServerContext holds the pipeline dependencies and is built with
// functional options:
//
//	sc, err := server.NewServerContext(ctx,
//		server.WithProcessor(output.NewProcessor(cfg, output.WithTextGenerator(gen))),
//		server.WithDispatcher(dispatcher),
//		server.WithBotToken(secrets.NewBotToken(store)),
//		server.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	defer sc.Shutdown()
//
//	handler := server.NewHTTPHandler(sc, server.NewHealthChecker(sc))
//
// The API exposes POST /process, which validates the request, runs the
// output pipeline and delivers the resulting messages to the chat, plus the
// /healthz, /readyz and /healthz/detailed probes. Prometheus metrics are
// served by a separate MetricsServer so they never share the API listener.
package server
