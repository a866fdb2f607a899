package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Artexxx/HR-Directory/internal/api"
	"github.com/Artexxx/HR-Directory/internal/directory"
	"github.com/Artexxx/HR-Directory/internal/validation"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Server renders the employee form. Handlers run one at a time under mu, which
// plays the role of the controller's event loop.
type Server struct {
	mu    sync.Mutex
	ctrl  *directory.Controller
	flash string

	r      *router.Router
	server *fasthttp.Server
	port   int
	log    zerolog.Logger
}

func NewServer(port int, ctrl *directory.Controller, log zerolog.Logger) *Server {
	s := &Server{
		ctrl: ctrl,
		r:    router.New(),
		port: port,
		log:  log.With().Str("component", "WebUI").Logger(),
	}

	s.r.GET("/", s.index)
	s.r.POST("/submit", s.submit)
	s.r.POST("/rows/{index}/edit", s.edit)
	s.r.POST("/rows/{index}/delete", s.remove)
	s.r.POST("/cancel", s.cancel)
	s.r.POST("/reload", s.reload)

	s.server = &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "hr-directory-web",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	return s
}

func (s *Server) Handler() fasthttp.RequestHandler {
	return api.RecoveryMiddleware(api.LoggingMiddleware(s.r.Handler))
}

func (s *Server) Start(ctx context.Context) error {
	s.log.Info().Int("port", s.port).Msg("Starting web UI")

	emergencyShutdown := make(chan error, 1)
	go func() {
		emergencyShutdown <- s.server.ListenAndServe(fmt.Sprintf(":%d", s.port))
	}()

	select {
	case <-ctx.Done():
		return s.server.Shutdown()
	case e := <-emergencyShutdown:
		return e
	}
}

func (s *Server) index(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	args := ctx.QueryArgs()
	if args.Has("q") {
		s.ctrl.SetQuery(string(args.Peek("q")))
	}

	page := buildPage(s.ctrl, s.flash)
	s.flash = ""

	ctx.SetContentType("text/html; charset=utf-8")
	if err := pageTmpl.Execute(ctx, page); err != nil {
		s.log.Error().Err(err).Msg("render page failed")
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
	}
}

func (s *Server) submit(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var d validation.Draft
	form := ctx.PostArgs()
	for _, f := range validation.Fields {
		d.Set(f, string(form.Peek(string(f))))
	}
	s.ctrl.SetDraft(d)

	s.report(s.ctrl.Submit(ctx))
	s.redirect(ctx)
}

func (s *Server) edit(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.rowTarget(ctx); ok {
		s.report(s.ctrl.BeginEdit(i))
	} else {
		s.report(directory.ErrIndexOutOfRange)
	}
	s.redirect(ctx)
}

func (s *Server) remove(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.rowTarget(ctx); ok {
		s.report(s.ctrl.Delete(ctx, i))
	} else {
		s.report(directory.ErrIndexOutOfRange)
	}
	s.redirect(ctx)
}

func (s *Server) cancel(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.CancelEdit()
	s.redirect(ctx)
}

func (s *Server) reload(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.report(s.ctrl.Load(ctx))
	s.redirect(ctx)
}

func (s *Server) report(err error) {
	s.flash = flashFor(err)
	if s.flash != "" {
		s.log.Warn().Err(err).Msg("operation failed")
	}
}

// redirect sends the browser back to the page, keeping the active search.
func (s *Server) redirect(ctx *fasthttp.RequestCtx) {
	target := "/"
	if q := s.ctrl.Query(); q != "" {
		target += "?q=" + url.QueryEscape(q)
	}
	ctx.Redirect(target, fasthttp.StatusSeeOther)
}

// rowTarget resolves a row action to a store index. The page carries the row's
// id next to its position; if the store changed since the page was rendered the
// two no longer agree and the action is refused.
func (s *Server) rowTarget(ctx *fasthttp.RequestCtx) (int, bool) {
	i, ok := rowIndex(ctx)
	if !ok {
		return 0, false
	}

	cur, ok := s.ctrl.Store().At(i)
	if !ok {
		return 0, false
	}
	if id := string(ctx.PostArgs().Peek("id")); id != cur.ID {
		s.log.Warn().Int("index", i).Str("posted_id", id).Str("employee_id", cur.ID).Msg("row action from a stale page")
		return 0, false
	}

	return i, true
}

func rowIndex(ctx *fasthttp.RequestCtx) (int, bool) {
	raw, _ := ctx.UserValue("index").(string)
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
