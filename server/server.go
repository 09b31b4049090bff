// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package server exposes Babel handlers over HTTP. Every method is served
// at POST <prefix>/<method>; requests are decoded by their Content-Type,
// replies and faults are encoded in the format the caller accepts.
package server

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/url"
	"slices"
	"sync"

	"github.com/gorilla/mux"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/luxfi/babel/codec"
	"github.com/luxfi/babel/faults"
	"github.com/luxfi/babel/model"
)

var logger = loggo.GetLogger("babel.server")

// HandlerFunc serves one method. req is nil for methods registered
// without a request type. A nil reply is sent as an empty body.
type HandlerFunc func(ctx context.Context, req model.Model) (any, error)

// ErrorLogger records a failed request and returns an id for the log
// entry, or "" when none was written.
type ErrorLogger func(r *http.Request, err error) string

type method struct {
	reqType *model.Type
	handler HandlerFunc
}

// Server dispatches requests to registered handlers. It is an
// http.Handler.
type Server struct {
	router      *mux.Router
	prefix      string
	translator  faults.Translator
	errorLogger ErrorLogger

	mu      sync.RWMutex
	methods map[string]method
}

// Option configures a Server.
type Option func(*Server)

// WithPrefix serves methods below prefix, such as "/api".
func WithPrefix(prefix string) Option {
	return func(s *Server) { s.prefix = prefix }
}

// WithTranslator replaces faults.ToServiceError as the mapping from
// handler errors to the ServiceError sent back.
func WithTranslator(t faults.Translator) Option {
	return func(s *Server) { s.translator = t }
}

// WithErrorLogger sets the logger for failed requests. The id it returns
// is reported to the caller as the Logging/LogId context entry.
func WithErrorLogger(l ErrorLogger) Option {
	return func(s *Server) { s.errorLogger = l }
}

// New returns a server without methods.
func New(opts ...Option) *Server {
	s := &Server{
		translator: faults.ToServiceError,
		methods:    make(map[string]method),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = mux.NewRouter()
	s.router.HandleFunc(s.prefix+"/{method:.+}", s.dispatch).Methods(http.MethodPost)
	return s
}

// Handle registers h for name. reqType is the model requests are decoded
// into; it may be nil for methods that take no arguments.
func (s *Server) Handle(name string, reqType *model.Type, h HandlerFunc) error {
	if name == "" {
		return errors.NotValidf("empty method name")
	}
	if h == nil {
		return errors.NotValidf("nil handler for %q", name)
	}
	if reqType != nil && reqType.Kind != model.KindStruct {
		return errors.NotValidf("request type %s of %q", reqType, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.methods[name]; ok {
		return errors.AlreadyExistsf("method %q", name)
	}
	s.methods[name] = method{reqType: reqType, handler: h}
	return nil
}

// Handle registers a typed handler for name.
func Handle[Req model.Model, Resp interface {
	comparable
	model.Model
}](s *Server, name string, reqType *model.Type, fn func(context.Context, Req) (Resp, error)) error {
	return s.Handle(name, reqType, func(ctx context.Context, req model.Model) (any, error) {
		r, _ := req.(Req)
		resp, err := fn(ctx, r)
		var zero Resp
		if err != nil || resp == zero {
			return nil, err
		}
		return resp, nil
	})
}

// Methods returns the registered method names in sorted order.
func (s *Server) Methods() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.methods))
	for name := range s.methods {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *Server) lookup(name string) (method, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.methods[name]
	return m, ok
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve serves HTTP on l until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: s}
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Warningf("shutting down %s: %v", l.Addr(), err)
		}
	}()
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Trace(err)
}

type requestKey struct{}

// RequestFromContext returns the request being served.
func RequestFromContext(ctx context.Context) (*http.Request, bool) {
	r, ok := ctx.Value(requestKey{}).(*http.Request)
	return r, ok
}

// Header returns the named header with the percent-encoding applied by
// Babel clients removed.
func Header(r *http.Request, name string) string {
	v := r.Header.Get(name)
	if v == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["method"]
	out := codec.Negotiate(r.Header.Get("Accept"), r.Header.Get("Content-Type"))

	m, ok := s.lookup(name)
	if !ok {
		s.fail(w, r, out, errors.NotFoundf("method %q", name), http.StatusNotFound)
		return
	}

	var req model.Model
	if m.reqType != nil {
		var err error
		if req, err = Decode(r, m.reqType); err != nil {
			s.fail(w, r, out, err, 0)
			return
		}
	}

	ctx := context.WithValue(r.Context(), requestKey{}, r)
	resp, err := m.handler(ctx, req)
	if err != nil {
		s.fail(w, r, out, err, 0)
		return
	}
	Write(w, out, http.StatusOK, resp)
}

// fail reports err to the caller. A zero status is derived from the kind
// of the translated error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, out codec.Codec, err error, status int) {
	se, kind := s.translator(err)
	if se == nil {
		se, kind = faults.ToServiceError(err)
	}
	if status == 0 {
		status = kind.HTTPStatus()
	}
	var logID string
	if s.errorLogger != nil {
		logID = s.errorLogger(r, err)
	}
	if logID != "" {
		se.AddContext("Logging", "LogId", logID)
		logger.Errorf("%s failed (log id %s): %v", r.URL.Path, logID, err)
	} else {
		logger.Errorf("%s failed: %v", r.URL.Path, err)
	}
	Write(w, out, status, se)
}

// Decode reads the body of r as a model of type t, in the format named by
// its Content-Type, and applies the model's defaults. A missing body is an
// invalid request.
func Decode(r *http.Request, t *model.Type) (model.Model, error) {
	in := codec.ForContentType(r.Header.Get("Content-Type"))
	v, err := in.Deserialize(r.Body, t)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, faults.NewApplicationError(faults.CodeInvalidRequest, "Invalid input data format")
	}
	m, ok := v.(model.Model)
	if !ok {
		return nil, errors.NotSupportedf("request type %s", t)
	}
	if d, ok := m.(model.Defaulter); ok {
		d.SetDefaults()
	}
	return m, nil
}

// Write sends v encoded by c with the given status. Replies are never
// cached. A nil v is sent as an empty body.
func Write(w http.ResponseWriter, c codec.Codec, status int, v any) {
	var buf bytes.Buffer
	if v != nil {
		if err := c.Serialize(&buf, v); err != nil {
			logger.Errorf("cannot encode %T reply: %v", v, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	h := w.Header()
	h.Set("Content-Type", c.ContentType())
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Debugf("writing reply: %v", err)
	}
}
