// Package app wires the feature builder's HTTP server together: telemetry,
// services, middleware, routes and the server lifecycle.
//
// # Initialization Flow
//
//	1. Initialize OpenTelemetry providers and the pipeline metrics
//	2. Create the feature and health services
//	3. Build the chi router and its middleware chain
//	4. Create the HTTP server
//
// # Usage
//
//	application, err := app.New(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// When the context passed to Run is cancelled the server stops accepting
// connections, waits up to Server.ShutdownTimeout for running requests and
// flushes the telemetry providers. Errors are returned, never turned into
// os.Exit, so main controls the exit code.
package app
