// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package babel is the client side of the Babel RPC substrate: generated
// request and response models are serialized by a Codec, posted to the
// service by a Transport, and failures come back as typed faults.
//
// # Usage
//
// A client is normally built from configuration:
//
//	cfg, err := babel.ParseConfig(data)
//	if err != nil {
//	    return err
//	}
//	client, err := babel.Dial("CreditCardService", cfg)
//	if err != nil {
//	    return err
//	}
//	client.Headers.Set("X-Tenant", "acme")
//
//	var reply CardReply
//	err = client.Call(ctx, "CreditCardService/Authorize", &CardRequest{...}, &reply)
//
// Typed results without a model pointer:
//
//	items, err := babel.Invoke[[]string](ctx, client, "Catalog/List", req, listType)
//
// # Errors
//
// A call fails with a faults.Fault. Replies carrying a ServiceError are
// raised as the remote fault, with a kind derived from the HTTP status.
// Anything else is a transport.RequestError with the status, URL, headers
// and body of the failed reply.
//
// # Architecture
//
//   - model: the field visitor every generated model implements, and the
//     generic algorithms built on it (copy, compare, validate)
//   - faults: coded errors, ServiceError and error translation
//   - jsoncodec, xmlcodec: the two wire formats
//   - codec: the Codec interface, format registry and content negotiation
//   - transport: HTTP transport with retries, timeouts and call events
//   - server: the service side, routing POST /{method} to handlers
//   - rpccodec, grpccodec: Babel payloads over gorilla/rpc and gRPC
//   - metrics: Prometheus collector fed by transport events
package babel
