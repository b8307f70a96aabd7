package pipeline

import (
	"bufio"
	"context"
	"net"
	"net/http"
)

// RequestDescriptor is a read-only view of an inbound request.
type RequestDescriptor struct {
	Method   string
	Path     string
	Scheme   string
	Host     string
	BasePath string
	// Query is the raw query with its leading "?", or empty.
	Query  string
	Header http.Header
}

// URL reconstructs the display URL scheme://host + base path + path + query.
func (d RequestDescriptor) URL() string {
	return d.Scheme + "://" + d.Host + d.BasePath + d.Path + d.Query
}

// Context is the state of one request travelling through the pipeline.
type Context struct {
	request   *http.Request
	writer    http.ResponseWriter
	status    func() int
	written   func() bool
	statusSet func() bool
	items     *Items
	basePath  string
	requestID string
	err       error
	aborted   bool
}

// NewContext builds a Context for a request served outside of Pipeline,
// e.g. by tests that drive observers directly.
func NewContext(w http.ResponseWriter, r *http.Request, basePath string) *Context {
	rw := newResponseWriter(w)
	return &Context{
		request:  r,
		writer:   rw,
		status:   rw.Status,
		written:  rw.Written,
		items:    NewItems(),
		basePath: basePath,
	}
}

// Request returns the current request. Its context reflects every
// SetRequestContext call made so far.
func (c *Context) Request() *http.Request {
	return c.request
}

// SetRequestContext replaces the request context seen by later hooks and by
// the handler.
func (c *Context) SetRequestContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	c.request = c.request.WithContext(ctx)
}

// Descriptor returns the read-only view of the request.
func (c *Context) Descriptor() RequestDescriptor {
	r := c.request
	d := RequestDescriptor{
		Method:   r.Method,
		Path:     r.URL.Path,
		Scheme:   r.URL.Scheme,
		Host:     r.Host,
		BasePath: c.basePath,
		Header:   r.Header,
	}
	if d.Scheme == "" {
		d.Scheme = "http"
		if r.TLS != nil {
			d.Scheme = "https"
		}
	}
	if d.Host == "" {
		d.Host = r.URL.Host
	}
	if r.URL.RawQuery != "" {
		d.Query = "?" + r.URL.RawQuery
	}
	return d
}

// Items returns the request's key/value bag.
func (c *Context) Items() *Items {
	return c.items
}

// StatusCode returns the response status written so far, 200 if none was written.
func (c *Context) StatusCode() int {
	return c.status()
}

// Written reports whether the response header has been sent.
func (c *Context) Written() bool {
	return c.written()
}

// responded reports whether the handler wrote a response or chose a status
// that the host framework has yet to flush.
func (c *Context) responded() bool {
	if c.written() {
		return true
	}
	return c.statusSet != nil && c.statusSet()
}

// ResponseHeader returns the response header map.
func (c *Context) ResponseHeader() http.Header {
	return c.writer.Header()
}

// RequestID returns the request id assigned by the pipeline.
func (c *Context) RequestID() string {
	return c.requestID
}

// Err returns the error raised by the handler, if any.
func (c *Context) Err() error {
	return c.err
}

// responseWriter captures the status code written by the handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Status() int {
	return rw.statusCode
}

func (rw *responseWriter) Written() bool {
	return rw.wroteHeader
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		if !rw.wroteHeader {
			rw.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(rw.ResponseWriter).Hijack()
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
