package api

import (
	"log/slog"
	"net/http"
	"path"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apimiddleware "github.com/somabay/handbook/infrastructure/api/middleware"
)

// SiteConfig locates the files served by the public site.
type SiteConfig struct {
	PublicDir  string
	UploadsDir string
	DataDir    string
}

// site serves the handbook front end. Unknown paths fall back to
// index.html so the client-side router can resolve them.
type site struct {
	publicDir string
	public    http.Dir
	files     http.Handler
}

// NewSiteHandler returns the handler for the public site: static files from
// the public directory, /uploads, /data, the /admin entry page and an SPA
// fallback for everything else.
func NewSiteHandler(cfg SiteConfig, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &site{
		publicDir: cfg.PublicDir,
		public:    http.Dir(cfg.PublicDir),
		files:     http.FileServer(http.Dir(cfg.PublicDir)),
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.GetHead)
	router.Use(apimiddleware.Logging(logger))

	router.Handle("/uploads/*", http.StripPrefix("/uploads", http.FileServer(http.Dir(cfg.UploadsDir))))
	router.Handle("/data/*", http.StripPrefix("/data", http.FileServer(http.Dir(cfg.DataDir))))
	router.Get("/admin", s.entry("admin.html"))
	router.Get("/*", s.serve)

	return router
}

func (s *site) entry(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(s.publicDir, name))
	}
}

func (s *site) serve(w http.ResponseWriter, req *http.Request) {
	name := path.Clean("/" + chi.URLParam(req, "*"))
	if f, err := s.public.Open(name); err == nil {
		info, statErr := f.Stat()
		_ = f.Close()
		if statErr == nil && !info.IsDir() {
			s.files.ServeHTTP(w, req)
			return
		}
	}
	s.entry("index.html")(w, req)
}
