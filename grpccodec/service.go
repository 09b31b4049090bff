// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package grpccodec

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/luxfi/babel/faults"
	"github.com/luxfi/babel/jsoncodec"
	"github.com/luxfi/babel/model"
	"github.com/luxfi/babel/server"
)

// errorTrailer holds the JSON ServiceError of a failed call.
const errorTrailer = "babel-error-bin"

// Service returns the description of a gRPC service made of unary
// methods. Register it with a nil implementation:
//
//	s.RegisterService(grpccodec.Service("Accounts", methods...), nil)
func Service(name string, methods ...grpc.MethodDesc) *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: name,
		HandlerType: (*any)(nil),
		Methods:     methods,
	}
}

// Method describes a unary method whose request is a model of type
// reqType. Requests get their defaults applied before fn runs, and errors
// returned by fn are sent to the caller as faults.
func Method(name string, reqType *model.Type, fn server.HandlerFunc) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(_ any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			req := reqType.New()
			if err := dec(req); err != nil {
				return nil, toStatus(ctx, err)
			}
			if d, ok := req.(model.Defaulter); ok {
				d.SetDefaults()
			}
			handler := func(ctx context.Context, req any) (any, error) {
				resp, err := fn(ctx, req.(model.Model))
				if err != nil {
					return nil, toStatus(ctx, err)
				}
				return resp, nil
			}
			if interceptor == nil {
				return handler(ctx, req)
			}
			info := &grpc.UnaryServerInfo{FullMethod: name}
			return interceptor(ctx, req, info, handler)
		},
	}
}

func toStatus(ctx context.Context, err error) error {
	se, kind := faults.ToServiceError(err)
	code := codes.Internal
	if kind == faults.InvalidRequest {
		code = codes.InvalidArgument
	}
	data, merr := jsoncodec.Marshal(se)
	if merr != nil {
		logger.Errorf("cannot encode fault %v: %v", err, merr)
		return status.Error(code, se.Details)
	}
	if terr := grpc.SetTrailer(ctx, metadata.Pairs(errorTrailer, string(data))); terr != nil {
		logger.Debugf("setting fault trailer: %v", terr)
	}
	return status.Error(code, se.Details)
}

// fromStatus rebuilds the fault sent by a Babel service. Errors without a
// fault trailer are returned unchanged.
func fromStatus(err error, trailer metadata.MD) error {
	values := trailer.Get(errorTrailer)
	if len(values) == 0 {
		return err
	}
	v, derr := jsoncodec.Unmarshal([]byte(values[0]), faults.ServiceErrorType)
	se, ok := v.(*faults.ServiceError)
	if derr != nil || !ok {
		logger.Debugf("ignoring malformed fault trailer: %v", derr)
		return err
	}
	kind := faults.Unexpected
	if status.Code(err) == codes.InvalidArgument {
		kind = faults.InvalidRequest
	}
	return faults.FromServiceError(se, kind)
}
