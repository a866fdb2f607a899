package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Artexxx/HR-Directory/internal/dto"
)

const employeesPath = "/employees"

// HTTPError carries the status and body of a non-2xx response.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 300))
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	// cut on a rune boundary
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}

type Config struct {
	BaseURL string
	// Timeout bounds a single call when ctx has no deadline; zero means no limit.
	Timeout time.Duration
	// Dial overrides the connection dialer, used by tests.
	Dial fasthttp.DialFunc
}

// Client talks to the employees REST backend. Failed calls are returned to the
// caller as is and never retried.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
	log     zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http: &fasthttp.Client{
			Name:                   "hr-directory-client",
			Dial:                   cfg.Dial,
			MaxIdleConnDuration:    30 * time.Second,
			DisablePathNormalizing: true,
		},
		log: log.With().Str("component", "RemoteClient").Logger(),
	}
}

func (c *Client) List(ctx context.Context) ([]dto.Employee, error) {
	var out []dto.Employee
	if err := c.do(ctx, fasthttp.MethodGet, employeesPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (dto.Employee, error) {
	var out dto.Employee
	if err := c.do(ctx, fasthttp.MethodGet, employeePath(id), nil, &out); err != nil {
		return dto.Employee{}, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, e dto.Employee) (dto.Employee, error) {
	e.ID = ""

	var out dto.Employee
	if err := c.do(ctx, fasthttp.MethodPost, employeesPath, e, &out); err != nil {
		return dto.Employee{}, err
	}
	return out, nil
}

// Update sends the merged record. A response without a record body is treated as
// an echo of what was sent.
func (c *Client) Update(ctx context.Context, id string, e dto.Employee) (dto.Employee, error) {
	e.ID = id

	var out dto.Employee
	if err := c.do(ctx, fasthttp.MethodPut, employeePath(id), e, &out); err != nil {
		return dto.Employee{}, err
	}
	if out.ID == "" {
		return e, nil
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, employeePath(id), nil, nil)
}

func employeePath(id string) string {
	return employeesPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := c.baseURL + path
	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(raw)
	}

	begin := time.Now()
	if err := c.send(ctx, req, resp); err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("url", uri).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, uri, err)
	}

	code := resp.StatusCode()
	c.log.Debug().
		Str("method", method).
		Str("url", uri).
		Int("status", code).
		Dur("latency", time.Since(begin)).
		Msg("request done")

	if code < 200 || code > 299 {
		return &HTTPError{
			Method:     method,
			URL:        uri,
			StatusCode: code,
			Body:       append([]byte(nil), resp.Body()...),
		}
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("json parse error: %w body=%s", err, snippet(resp.Body(), 300))
	}

	return nil
}

func (c *Client) send(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		return c.http.DoDeadline(req, resp, deadline)
	}
	if c.timeout > 0 {
		return c.http.DoTimeout(req, resp, c.timeout)
	}
	return c.http.Do(req, resp)
}
