package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"slices"
	"strings"
	"time"

	"github.com/segmentio/fasthash/fnv1a"
	"github.com/valyala/fasthttp"

	"github.com/ardnew/arith/lang"
	"github.com/ardnew/arith/log"
	"github.com/ardnew/arith/pkg"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultShutdownTimeout = 5 * time.Second

	// defaultMaxBodySize bounds the program source accepted per request.
	defaultMaxBodySize = 1 << 20

	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"
)

var (
	ErrListen   = lang.NewError("listen")
	ErrServe    = lang.NewError("serve")
	ErrShutdown = lang.NewError("shutdown")
)

// Server answers evaluation and formatting requests.
type Server struct {
	prelude []lang.Definition
	logger  log.Logger
	srv     *fasthttp.Server

	shutdownTimeout time.Duration
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger for request and lifecycle records.
func WithLogger(logger log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithPrelude binds defs before every evaluated program. The caller is
// expected to have checked that defs evaluate.
func WithPrelude(defs []lang.Definition) Option {
	return func(s *Server) { s.prelude = defs }
}

// WithShutdownTimeout bounds how long [Server.Serve] waits for in-flight
// requests after its context is cancelled.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// New returns a Server configured by opts.
func New(opts ...Option) *Server {
	s := &Server{shutdownTimeout: defaultShutdownTimeout}

	for _, opt := range opts {
		opt(s)
	}

	s.srv = &fasthttp.Server{
		Handler:            s.Handler,
		Name:               pkg.Name,
		ReadTimeout:        defaultReadTimeout,
		WriteTimeout:       defaultWriteTimeout,
		MaxRequestBodySize: defaultMaxBodySize,
		Logger:             printfLogger{s.logger},
	}

	return s
}

// ListenAndServe listens on the TCP address addr and calls [Server.Serve].
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return ErrListen.With(slog.String("addr", addr)).Wrap(err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.InfoContext(ctx, "server listening",
		slog.String("addr", ln.Addr().String()),
		slog.Int("prelude", len(s.prelude)),
	)

	errc := make(chan error, 1)

	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		if err != nil {
			return ErrServe.Wrap(err)
		}

		return nil

	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx), s.shutdownTimeout,
	)
	defer cancel()

	err := s.srv.ShutdownWithContext(sctx)

	// Shutdown only closes listeners fasthttp has registered. When ctx is
	// cancelled before the serving goroutine gets that far, closing ln is
	// what makes its Accept fail. ln may already be closed.
	_ = ln.Close()

	if err != nil {
		return ErrShutdown.Wrap(err)
	}

	if err := <-errc; err != nil {
		return ErrServe.Wrap(err)
	}

	s.logger.InfoContext(ctx, "server stopped")

	return nil
}

// Handler routes a single request.
func (s *Server) Handler(rctx *fasthttp.RequestCtx) {
	start := time.Now()

	switch string(rctx.Path()) {
	case "/eval":
		if s.allow(rctx, fasthttp.MethodPost) {
			s.handleEval(rctx)
		}

	case "/format":
		if s.allow(rctx, fasthttp.MethodPost) {
			s.handleFormat(rctx)
		}

	case "/healthz":
		if s.allow(rctx, fasthttp.MethodGet, fasthttp.MethodHead) {
			rctx.Success(contentTypeText, []byte("ok"))
		}

	default:
		rctx.Error("not found", fasthttp.StatusNotFound)
	}

	s.logger.DebugContext(rctx, "request",
		slog.String("method", string(rctx.Method())),
		slog.String("path", string(rctx.Path())),
		slog.Int("status", rctx.Response.StatusCode()),
		slog.Duration("elapsed", time.Since(start)),
	)
}

// allow reports whether the request method is one of methods, answering 405
// otherwise.
func (s *Server) allow(rctx *fasthttp.RequestCtx, methods ...string) bool {
	if slices.Contains(methods, string(rctx.Method())) {
		return true
	}

	rctx.Response.Header.Set(fasthttp.HeaderAllow, strings.Join(methods, ", "))
	rctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)

	return false
}

type evalResponse struct {
	Value any `json:"value"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func (s *Server) handleEval(rctx *fasthttp.RequestCtx) {
	opts := []lang.Option{lang.WithLogger(s.logger)}

	prog, err := lang.Parse(rctx, string(rctx.PostBody()), opts...)
	if err != nil {
		s.fail(rctx, err)

		return
	}

	v, err := lang.Evaluate(rctx, prog.WithPrelude(s.prelude), opts...)
	if err != nil {
		s.fail(rctx, err)

		return
	}

	s.writeJSON(rctx, fasthttp.StatusOK, evalResponse{Value: jsonValue(v)})
}

// jsonValue returns v as a JSON number, or as its text form when JSON has no
// number for it.
func jsonValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lang.FormatValue(v)
	}

	return v
}

func (s *Server) handleFormat(rctx *fasthttp.RequestCtx) {
	prog, err := lang.Parse(rctx, string(rctx.PostBody()),
		lang.WithLogger(s.logger))
	if err != nil {
		s.fail(rctx, err)

		return
	}

	text, err := prog.Canonical()
	if err != nil {
		s.fail(rctx, err)

		return
	}

	text += "\n"
	etag := fmt.Sprintf("%q", fmt.Sprintf("%016x", fnv1a.HashString64(text)))

	rctx.Response.Header.Set(fasthttp.HeaderETag, etag)

	if string(rctx.Request.Header.Peek(fasthttp.HeaderIfNoneMatch)) == etag {
		rctx.SetStatusCode(fasthttp.StatusNotModified)

		return
	}

	rctx.Success(contentTypeText, []byte(text))
}

// fail answers a failed program with 422 when err is positioned, and 500
// otherwise.
func (s *Server) fail(rctx *fasthttp.RequestCtx, err error) {
	var pe lang.Positioned
	if !errors.As(err, &pe) {
		s.logger.ErrorContext(rctx, "request failed", slog.Any("error", err))
		rctx.Error("internal error", fasthttp.StatusInternalServerError)

		return
	}

	pos := pe.Position()

	s.writeJSON(rctx, fasthttp.StatusUnprocessableEntity, errorResponse{
		Error: errorBody{
			Kind:    pe.ErrorKind().String(),
			Message: pe.Error(),
			Line:    pos.Line,
			Column:  pos.Column,
		},
	})
}

func (s *Server) writeJSON(rctx *fasthttp.RequestCtx, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.ErrorContext(rctx, "encode response", slog.Any("error", err))
		rctx.Error("internal error", fasthttp.StatusInternalServerError)

		return
	}

	rctx.SetContentType(contentTypeJSON)
	rctx.SetStatusCode(status)
	rctx.SetBody(data)
}

// printfLogger adapts a [log.Logger] to [fasthttp.Logger].
type printfLogger struct {
	logger log.Logger
}

func (l printfLogger) Printf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...), slog.String("source", "fasthttp"))
}
