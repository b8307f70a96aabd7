package pipeline

import (
	"crypto/tls"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver records the order of hook invocations.
type recordingObserver struct {
	name   string
	events *[]string
	before *Response
	onErr  *Response
	errs   []error
}

func (o *recordingObserver) OnBeforeRequest(c *Context) *Response {
	*o.events = append(*o.events, o.name+".before")
	return o.before
}

func (o *recordingObserver) OnAfterRequest(c *Context) {
	*o.events = append(*o.events, o.name+".after")
}

func (o *recordingObserver) OnError(c *Context, err error) *Response {
	*o.events = append(*o.events, o.name+".error")
	o.errs = append(o.errs, err)
	return o.onErr
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestHooksRunInRegistrationOrder(t *testing.T) {
	var events []string
	p := NewPipeline(Config{}, nil)
	require.NoError(t, p.AddObserver(&recordingObserver{name: "a", events: &events}))
	require.NoError(t, p.AddObserver(&recordingObserver{name: "b", events: &events}))

	h := p.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		events = append(events, "handler")
		_, _ = w.Write([]byte("ok"))
	}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, []string{"a.before", "b.before", "handler", "a.after", "b.after"}, events)
}

func TestBeforeHookShortCircuitStillRunsAfterHooks(t *testing.T) {
	var events []string
	p := NewPipeline(Config{}, nil)
	require.NoError(t, p.AddObserver(&recordingObserver{
		name:   "auth",
		events: &events,
		before: &Response{StatusCode: http.StatusUnauthorized, Body: []byte("denied")},
	}))
	require.NoError(t, p.AddObserver(&recordingObserver{name: "late", events: &events}))

	h := p.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "denied", rec.Body.String())
	assert.Equal(t, []string{"auth.before", "auth.after", "late.after"}, events)
}

func TestHandlerErrorRunsErrorHooksThenAfterHooks(t *testing.T) {
	var events []string
	obs := &recordingObserver{name: "o", events: &events}
	p := NewPipeline(Config{}, nil)
	require.NoError(t, p.AddObserver(obs))

	boom := errors.New("boom")
	var seen *Context
	p.AddAfter(func(c *Context) { seen = c })

	h := p.WrapFunc(func(w http.ResponseWriter, r *http.Request) error {
		return boom
	})
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []string{"o.before", "o.error", "o.after"}, events)
	require.Len(t, obs.errs, 1)
	assert.ErrorIs(t, obs.errs[0], boom)
	require.NotNil(t, seen)
	assert.ErrorIs(t, seen.Err(), boom)
	assert.Equal(t, http.StatusInternalServerError, seen.StatusCode())
}

func TestErrorHookCanReplaceResponse(t *testing.T) {
	var events []string
	p := NewPipeline(Config{}, nil)
	require.NoError(t, p.AddObserver(&recordingObserver{
		name:   "o",
		events: &events,
		onErr:  &Response{StatusCode: http.StatusTeapot},
	}))

	h := p.WrapFunc(func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("boom")
	})
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestPanicIsReportedAsError(t *testing.T) {
	var events []string
	obs := &recordingObserver{name: "o", events: &events}
	p := NewPipeline(Config{}, nil)
	require.NoError(t, p.AddObserver(obs))

	h := p.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, obs.errs, 1)
	assert.ErrorIs(t, obs.errs[0], ErrHandlerPanic)
	var pe *PanicError
	require.ErrorAs(t, obs.errs[0], &pe)
	assert.Equal(t, "kaboom", pe.Value)
	assert.Equal(t, []string{"o.before", "o.error", "o.after"}, events)
}

func TestAbortHandlerPanicIsRethrownAfterHooks(t *testing.T) {
	var events []string
	p := NewPipeline(Config{}, nil)
	require.NoError(t, p.AddObserver(&recordingObserver{name: "o", events: &events}))

	h := p.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		serve(h, httptest.NewRequest(http.MethodGet, "/x", nil))
	})
	assert.Equal(t, []string{"o.before", "o.error", "o.after"}, events)
}

func TestPanickingHookDoesNotBreakRequest(t *testing.T) {
	p := NewPipeline(Config{}, nil)
	p.AddBefore(func(c *Context) *Response { panic("bad hook") })
	p.AddAfter(func(c *Context) { panic("bad hook") })
	afterRan := false
	p.AddAfter(func(c *Context) { afterRan = true })

	h := p.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, afterRan)
}

func TestAddObserverRejectsNil(t *testing.T) {
	p := NewPipeline(Config{}, nil)
	assert.ErrorIs(t, p.AddObserver(nil), ErrNilObserver)
}

func TestRequestID(t *testing.T) {
	p := NewPipeline(Config{}, nil)
	var ids []string
	p.AddAfter(func(c *Context) { ids = append(ids, c.RequestID()) })
	h := p.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(DefaultRequestIDHeader, "req-1")
	rec := serve(h, req)
	assert.Equal(t, "req-1", rec.Header().Get(DefaultRequestIDHeader))

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := rec.Header().Get(DefaultRequestIDHeader)
	assert.Len(t, generated, 36)

	assert.Equal(t, []string{"req-1", generated}, ids)
}

func TestSetRequestContextReachesHandler(t *testing.T) {
	type key struct{}
	p := NewPipeline(Config{}, nil)
	p.AddBefore(func(c *Context) *Response {
		c.SetRequestContext(contextWith(c, key{}, "v"))
		return nil
	})

	var got interface{}
	h := p.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Context().Value(key{})
	}))
	serve(h, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, "v", got)
}

func TestDescriptor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://example.com/orders/7?expand=items", nil)
	c := NewContext(httptest.NewRecorder(), req, "/api")

	d := c.Descriptor()
	assert.Equal(t, http.MethodPost, d.Method)
	assert.Equal(t, "/orders/7", d.Path)
	assert.Equal(t, "example.com", d.Host)
	assert.Equal(t, "/api", d.BasePath)
	assert.Equal(t, "?expand=items", d.Query)
	assert.Equal(t, "http://example.com/api/orders/7?expand=items", d.URL())

	tlsReq := httptest.NewRequest(http.MethodGet, "/", nil)
	tlsReq.URL.Scheme = ""
	tlsReq.TLS = &tls.ConnectionState{}
	d = NewContext(httptest.NewRecorder(), tlsReq, "").Descriptor()
	assert.Equal(t, "https://example.com/", d.URL())
}

func TestItems(t *testing.T) {
	items := NewItems()

	require.NoError(t, items.Add("k", 1))
	assert.ErrorIs(t, items.Add("k", 2), ErrItemExists)
	assert.True(t, items.Contains("k"))

	v, ok := items.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, items.Remove("k"))
	assert.False(t, items.Remove("k"))
	assert.Equal(t, 0, items.Len())
}

func TestSlot(t *testing.T) {
	items := NewItems()
	slot := NewSlot[*int]("Counter")
	n := 3

	_, ok := slot.Load(items)
	assert.False(t, ok)
	require.NoError(t, slot.Store(items, &n))
	assert.ErrorIs(t, slot.Store(items, &n), ErrSlotOccupied)

	got, ok := slot.Load(items)
	require.True(t, ok)
	assert.Equal(t, 3, *got)
	assert.True(t, slot.Present(items))

	assert.True(t, slot.Remove(items))
	assert.False(t, slot.Present(items))
	assert.False(t, items.Contains("Counter"))

	_, ok = slot.Load(nil)
	assert.False(t, ok)

	require.NoError(t, items.Add("Counter", "not an int"))
	_, ok = slot.Load(items)
	assert.False(t, ok)
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var events []string
	obs := &recordingObserver{name: "o", events: &events}
	p := NewPipeline(Config{}, nil)
	require.NoError(t, p.AddObserver(obs))

	var status int
	p.AddAfter(func(c *Context) { status = c.StatusCode() })

	boom := errors.New("boom")
	r := gin.New()
	r.Use(GinMiddleware(p))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusCreated, "made") })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(boom)
		c.Status(http.StatusBadGateway)
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "made", rec.Body.String())
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, []string{"o.before", "o.after"}, events)

	events = nil
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, []string{"o.before", "o.error", "o.after"}, events)
	require.Len(t, obs.errs, 1)
	assert.ErrorIs(t, obs.errs[0], boom)
}

func TestGinMiddlewareErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	p := NewPipeline(Config{}, nil)
	var status int
	p.AddAfter(func(c *Context) { status = c.StatusCode() })

	notFound := errors.New("not found")
	r := gin.New()
	r.Use(GinMiddleware(p))
	r.GET("/status-only", func(c *gin.Context) {
		_ = c.Error(notFound)
		c.Status(http.StatusNotFound)
	})
	r.GET("/no-status", func(c *gin.Context) {
		_ = c.Error(notFound)
	})
	r.GET("/replaced", func(c *gin.Context) {
		_ = c.Error(notFound)
		c.Status(http.StatusConflict)
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/status-only", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, status)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/no-status", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusInternalServerError, status)

	// a replacement response from an error hook does not override the handler's status
	p.AddOnError(func(c *Context, err error) *Response {
		return &Response{StatusCode: http.StatusTeapot}
	})
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/replaced", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, http.StatusConflict, status)
}

func TestGinMiddlewareShortCircuit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var events []string
	p := NewPipeline(Config{}, nil)
	require.NoError(t, p.AddObserver(&recordingObserver{
		name:   "o",
		events: &events,
		before: &Response{StatusCode: http.StatusForbidden},
	}))

	r := gin.New()
	r.Use(GinMiddleware(p))
	r.GET("/x", func(c *gin.Context) { t.Fatal("handler must not run") })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, []string{"o.before", "o.after"}, events)
}
