package pipeline

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/httptracing/v1/logger"
)

// Observer receives the three lifecycle events of every request.
//
// OnBeforeRequest runs before the handler and may short-circuit it by
// returning a response. OnAfterRequest runs once the request is done,
// including after errors and short-circuits. OnError runs when the handler
// returns an error or panics and may replace the default 500 response.
type Observer interface {
	OnBeforeRequest(c *Context) *Response
	OnAfterRequest(c *Context)
	OnError(c *Context, err error) *Response
}

// BeforeHook runs before the handler. A non-nil response ends the request.
type BeforeHook func(c *Context) *Response

// AfterHook runs after the request has been handled.
type AfterHook func(c *Context)

// ErrorHook runs when the handler failed. A non-nil response is written
// instead of the default error response.
type ErrorHook func(c *Context, err error) *Response

// HandlerFunc is an application handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Response is a response produced by a hook.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) write(w http.ResponseWriter) {
	for k, vs := range r.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	status := r.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(r.Body) > 0 {
		_, _ = w.Write(r.Body)
	}
}

// Pipeline owns ordered hook lists and runs them around application handlers.
//
// Hooks are meant to be registered at startup; registration is safe while
// requests are served but only affects requests that start afterwards.
type Pipeline struct {
	cfg    Config
	logger logger.Logger

	mu      sync.RWMutex
	before  []BeforeHook
	after   []AfterHook
	onError []ErrorHook
}

type hooks struct {
	before  []BeforeHook
	after   []AfterHook
	onError []ErrorHook
}

// NewPipeline returns an empty pipeline.
//
// Example:
//
//	p := pipeline.NewPipeline(pipeline.Config{}, log)
//	if err := p.AddObserver(observer); err != nil {
//	    return err
//	}
//	http.ListenAndServe(":8080", p.Wrap(mux))
func NewPipeline(cfg Config, log logger.Logger) *Pipeline {
	if cfg.RequestIDHeader == "" {
		cfg.RequestIDHeader = DefaultRequestIDHeader
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Pipeline{cfg: cfg, logger: log}
}

// AddObserver appends the three hooks of o.
func (p *Pipeline) AddObserver(o Observer) error {
	if o == nil {
		return ErrNilObserver
	}
	p.AddBefore(o.OnBeforeRequest)
	p.AddAfter(o.OnAfterRequest)
	p.AddOnError(o.OnError)
	return nil
}

// AddBefore appends a before-request hook.
func (p *Pipeline) AddBefore(h BeforeHook) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.before = append(p.before, h)
}

// AddAfter appends an after-request hook.
func (p *Pipeline) AddAfter(h AfterHook) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.after = append(p.after, h)
}

// AddOnError appends an error hook.
func (p *Pipeline) AddOnError(h ErrorHook) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = append(p.onError, h)
}

func (p *Pipeline) snapshot() hooks {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return hooks{
		before:  append([]BeforeHook(nil), p.before...),
		after:   append([]AfterHook(nil), p.after...),
		onError: append([]ErrorHook(nil), p.onError...),
	}
}

// Wrap runs next inside the pipeline. Panics in next are reported to the
// error hooks.
func (p *Pipeline) Wrap(next http.Handler) http.Handler {
	return p.WrapFunc(func(w http.ResponseWriter, r *http.Request) error {
		next.ServeHTTP(w, r)
		return nil
	})
}

// WrapFunc runs fn inside the pipeline. A returned error or a panic is
// reported to the error hooks.
func (p *Pipeline) WrapFunc(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := p.newContext(w, r)
		p.serve(c, func(c *Context) error {
			return fn(c.writer, c.request)
		})
	})
}

func (p *Pipeline) newContext(w http.ResponseWriter, r *http.Request) *Context {
	c := NewContext(w, r, p.cfg.BasePath)
	c.requestID = p.requestID(r)
	c.writer.Header().Set(p.cfg.RequestIDHeader, c.requestID)
	return c
}

func (p *Pipeline) requestID(r *http.Request) string {
	if id := r.Header.Get(p.cfg.RequestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}

// serve runs the hook sequence: before hooks, dispatch, error hooks on
// failure and after hooks in every case.
func (p *Pipeline) serve(c *Context, dispatch func(c *Context) error) {
	h := p.snapshot()

	defer func() {
		if c.aborted {
			panic(http.ErrAbortHandler)
		}
	}()
	defer p.runAfter(h.after, c)

	for _, hook := range h.before {
		if resp := p.runBefore(hook, c); resp != nil {
			resp.write(c.writer)
			return
		}
	}

	err := p.dispatch(c, dispatch)
	if err == nil {
		return
	}
	c.err = err

	for _, hook := range h.onError {
		if resp := p.runError(hook, c, err); resp != nil {
			if !c.responded() {
				resp.write(c.writer)
			}
			return
		}
	}

	p.logger.ErrorWithContext(c.request.Context(), "request failed", err, map[string]interface{}{
		"method":     c.request.Method,
		"path":       c.request.URL.Path,
		"request_id": c.requestID,
	})
	if !c.responded() && !c.aborted {
		http.Error(c.writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (p *Pipeline) dispatch(c *Context, fn func(c *Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == http.ErrAbortHandler {
				c.aborted = true
			}
			err = &PanicError{Value: r}
		}
	}()
	return fn(c)
}

func (p *Pipeline) runBefore(hook BeforeHook, c *Context) (resp *Response) {
	defer p.recoverHook("before", c)
	return hook(c)
}

func (p *Pipeline) runError(hook ErrorHook, c *Context, err error) (resp *Response) {
	defer p.recoverHook("error", c)
	return hook(c, err)
}

func (p *Pipeline) runAfter(after []AfterHook, c *Context) {
	for _, hook := range after {
		func() {
			defer p.recoverHook("after", c)
			hook(c)
		}()
	}
}

func (p *Pipeline) recoverHook(stage string, c *Context) {
	if r := recover(); r != nil {
		p.logger.Error("pipeline hook panicked", fmt.Errorf("%v", r), map[string]interface{}{
			"stage":      stage,
			"request_id": c.requestID,
		})
	}
}
