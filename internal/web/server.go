package web

import (
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/gofiber/template/html/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/ingredient-scanner/internal/nav"
	"github.com/joseph-ayodele/ingredient-scanner/internal/scan"
)

//go:embed views static
var assets embed.FS

// Sections present on the index page, in page order.
var sections = []string{"hero", "scanner", "rules", "about"}

// Deps are the collaborators the web front needs.
type Deps struct {
	Recognizer     scan.Recognizer
	Recorder       scan.Recorder
	Gatherer       prometheus.Gatherer
	Logger         *slog.Logger
	UploadDir      string
	MaxUploadBytes int
	ScanTimeout    time.Duration
	AccessLog      bool
}

// Server wraps the Fiber app.
type Server struct {
	App    *fiber.App
	logger *slog.Logger
}

// New creates the app with middleware and routes configured.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.UploadDir == "" {
		deps.UploadDir = os.TempDir()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 10 << 20
	}

	views, err := fs.Sub(assets, "views")
	if err != nil {
		return nil, err
	}
	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(views), ".html")

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
		BodyLimit:   deps.MaxUploadBytes + 64<<10, // multipart overhead
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				message = e.Message
			}

			return c.Status(code).Render("error", fiber.Map{
				"Title":   "Error",
				"Message": message,
				"Nav":     menu(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}

	h := &Handler{
		recognizer: deps.Recognizer,
		recorder:   deps.Recorder,
		logger:     deps.Logger,
		uploadDir:  deps.UploadDir,
		maxUpload:  deps.MaxUploadBytes,
		timeout:    deps.ScanTimeout,
	}

	app.Get("/static/*", static.New("", static.Config{FS: staticFS}))

	app.Get("/", h.Index)
	app.Get("/about", h.About)
	app.Get("/healthz", h.Health)

	api := app.Group("/api")
	api.Post("/scan", h.Scan)
	api.Post("/evaluate", h.Evaluate)
	api.Get("/rules", h.Rules)

	app.Post("/scan/card", h.Card)

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	return &Server{App: app, logger: deps.Logger}, nil
}

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("http listening", "addr", addr)
	return s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}

func menu() []nav.Item {
	return nav.NewResolver(sections...).Menu(nav.DefaultButtons()...)
}
