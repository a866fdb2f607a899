package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/Artexxx/HR-Directory/internal/directory"
	"github.com/Artexxx/HR-Directory/internal/dto"
)

var _ directory.Collaborator = (*Client)(nil)

type recorded struct {
	method string
	path   string
	body   []byte
}

func startServer(t *testing.T, h func(ctx *fasthttp.RequestCtx)) (*Client, *[]recorded) {
	t.Helper()

	var reqs []recorded
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		reqs = append(reqs, recorded{
			method: string(ctx.Method()),
			path:   string(ctx.URI().PathOriginal()),
			body:   append([]byte(nil), ctx.PostBody()...),
		})
		h(ctx)
	}}

	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		_ = srv.Shutdown()
		_ = ln.Close()
	})

	c := New(Config{
		BaseURL: "http://directory.test/",
		Dial:    func(string) (net.Conn, error) { return ln.Dial() },
	}, zerolog.Nop())

	return c, &reqs
}

func writeJSON(ctx *fasthttp.RequestCtx, code int, v any) {
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	_ = json.NewEncoder(ctx).Encode(v)
}

func sample() dto.Employee {
	return dto.Employee{
		Name:        "Jane Doe",
		DOB:         "1994-06-12",
		Contact:     "9161234567",
		Email:       "jane@example.com",
		Address:     "12 Baker Street",
		Department:  "Quality",
		Designation: "QA Engineer",
		Salary:      85000,
	}
}

func TestClient_List(t *testing.T) {
	c, reqs := startServer(t, func(ctx *fasthttp.RequestCtx) {
		writeJSON(ctx, fasthttp.StatusOK, []dto.Employee{sample().WithID("1"), sample().WithID("2")})
	})

	got, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[1].ID)

	require.Len(t, *reqs, 1)
	assert.Equal(t, "GET", (*reqs)[0].method)
	assert.Equal(t, "/employees", (*reqs)[0].path)
}

func TestClient_CreateSendsRecordWithoutID(t *testing.T) {
	c, reqs := startServer(t, func(ctx *fasthttp.RequestCtx) {
		var in dto.Employee
		_ = json.Unmarshal(ctx.PostBody(), &in)
		writeJSON(ctx, fasthttp.StatusCreated, in.WithID("7"))
	})

	got, err := c.Create(context.Background(), sample().WithID("stale"))
	require.NoError(t, err)
	assert.Equal(t, sample().WithID("7"), got)

	var sent map[string]any
	require.NoError(t, json.Unmarshal((*reqs)[0].body, &sent))
	_, hasID := sent["id"]
	assert.False(t, hasID)
	assert.Equal(t, "POST", (*reqs)[0].method)
}

func TestClient_UpdateEchoesWhenBodyHasNoRecord(t *testing.T) {
	c, reqs := startServer(t, func(ctx *fasthttp.RequestCtx) {
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	})

	got, err := c.Update(context.Background(), "a b", sample())
	require.NoError(t, err)
	assert.Equal(t, sample().WithID("a b"), got)
	assert.Equal(t, "PUT", (*reqs)[0].method)
	assert.Equal(t, "/employees/a%20b", (*reqs)[0].path)
}

func TestClient_UpdateReturnsServerRecord(t *testing.T) {
	c, _ := startServer(t, func(ctx *fasthttp.RequestCtx) {
		e := sample().WithID("3")
		e.Name = "Server Side"
		writeJSON(ctx, fasthttp.StatusOK, e)
	})

	got, err := c.Update(context.Background(), "3", sample())
	require.NoError(t, err)
	assert.Equal(t, "Server Side", got.Name)
}

func TestClient_Delete(t *testing.T) {
	c, reqs := startServer(t, func(ctx *fasthttp.RequestCtx) {
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok", "msg": "deleted"})
	})

	require.NoError(t, c.Delete(context.Background(), "9"))
	assert.Equal(t, "DELETE", (*reqs)[0].method)
	assert.Equal(t, "/employees/9", (*reqs)[0].path)
}

func TestClient_HTTPError(t *testing.T) {
	c, _ := startServer(t, func(ctx *fasthttp.RequestCtx) {
		writeJSON(ctx, fasthttp.StatusNotFound, map[string]string{"code": "Not Found", "message": "missing"})
	})

	err := c.Delete(context.Background(), "9")

	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, fasthttp.StatusNotFound, herr.StatusCode)
	assert.Equal(t, "DELETE", herr.Method)
	assert.Contains(t, herr.Error(), "missing")
}

func TestClient_NumericIDs(t *testing.T) {
	const record = `"name":"Jane Doe","dob":"1994-06-12","contact":"9161234567","email":"jane@example.com",` +
		`"address":"12 Baker Street","department":"Quality","designation":"QA Engineer","salary":85000`

	c, _ := startServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("application/json")
		if ctx.IsPost() {
			ctx.SetStatusCode(fasthttp.StatusCreated)
			ctx.SetBodyString(`{"id":7,` + record + `}`)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString(`[{"id":7,` + record + `},{"id":"8",` + record + `}]`)
	})

	created, err := c.Create(context.Background(), sample())
	require.NoError(t, err)
	assert.Equal(t, sample().WithID("7"), created)

	got, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dto.Employee{sample().WithID("7"), sample().WithID("8")}, got)
}

func TestHTTPError_BodyCutOnRuneBoundary(t *testing.T) {
	body := []byte(strings.Repeat("ж", 200))

	msg := (&HTTPError{Method: "GET", URL: "/employees", StatusCode: 500, Body: body}).Error()

	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, "..."))
	assert.Equal(t, strings.Repeat("ж", 150)+"...", snippet(body, 300))
	assert.Equal(t, strings.Repeat("ж", 150)+"...", snippet(body, 301))
	assert.Equal(t, "ok", snippet([]byte(" ok \n"), 300))
}

func TestClient_MalformedBody(t *testing.T) {
	c, _ := startServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("{not json")
	})

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json parse error")
}

func TestClient_CanceledContext(t *testing.T) {
	c, reqs := startServer(t, func(ctx *fasthttp.RequestCtx) {
		writeJSON(ctx, fasthttp.StatusOK, []dto.Employee{})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *reqs)
}

func TestClient_DeadlineFromContext(t *testing.T) {
	c, _ := startServer(t, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(ctx, fasthttp.StatusOK, []dto.Employee{})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.List(ctx)
	assert.ErrorIs(t, err, fasthttp.ErrTimeout)
}

func TestClient_ConnectionRefused(t *testing.T) {
	c := New(Config{
		BaseURL: "http://directory.test",
		Dial:    func(string) (net.Conn, error) { return nil, errors.New("connection refused") },
	}, zerolog.Nop())

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
