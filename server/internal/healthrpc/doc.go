// Package healthrpc serves the standard grpc.health.v1.Health service so
// orchestrators that probe over gRPC can check the shard's liveness.
//
// New(logger) builds the gRPC server. Serve(lis) blocks until the listener
// fails or Stop is called. Stop flips every status to NOT_SERVING before
// draining in-flight calls, so probes see the shard going away.
//
// Every unary call passes through LoggingInterceptor.
package healthrpc
