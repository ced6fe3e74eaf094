package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/abrezinsky/rosterdraw/internal/auth"
	"github.com/abrezinsky/rosterdraw/internal/services"
	"github.com/abrezinsky/rosterdraw/internal/websocket"
	"github.com/abrezinsky/rosterdraw/web"
)

// maxUploadBytes bounds roster uploads
const maxUploadBytes = 1 << 20

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// PageData holds the data passed to the page templates
type PageData struct {
	Title            string
	IsHost           bool
	DefaultGroupSize int
	MinGroupSize     int
	MaxGroupSize     int
	Error            string
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index     *template.Template
	HostLogin *template.Template
}

// Options carries the optional pieces of the router
type Options struct {
	// CORSOrigins lists origins allowed to call the public API; empty disables CORS
	CORSOrigins []string
	// Metrics serves /metrics when set
	Metrics http.Handler
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Roster       services.RosterServicer
	Draw         services.DrawServicer
	Grouping     services.GroupingServicer
	Settings     services.SettingsServicer
	Auth         *auth.Auth
	Hub          *websocket.Hub
	Log          HTTPLogger
	opts         Options
	templates    *Templates
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	roster services.RosterServicer,
	draw services.DrawServicer,
	grouping services.GroupingServicer,
	settings services.SettingsServicer,
	templatesFS fs.FS,
	staticServer http.Handler,
	hostAuth *auth.Auth,
	hub *websocket.Hub,
	log HTTPLogger,
	opts Options,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Roster:       roster,
		Draw:         draw,
		Grouping:     grouping,
		Settings:     settings,
		Auth:         hostAuth,
		Hub:          hub,
		Log:          log,
		opts:         opts,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without loading templates (for testing API endpoints)
func NewForTesting(
	roster services.RosterServicer,
	draw services.DrawServicer,
	grouping services.GroupingServicer,
	settings services.SettingsServicer,
) *Handlers {
	// Create a test auth with a known password
	testAuth := auth.New("test-password")
	return &Handlers{
		Roster:   roster,
		Draw:     draw,
		Grouping: grouping,
		Settings: settings,
		Auth:     testAuth,
		Log:      NoopHTTPLogger{},
		// templates left nil - API endpoints don't use templates
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, web.IndexPage); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.HostLogin, err = template.ParseFS(templatesFS, web.LoginPage); err != nil {
		return nil, fmt.Errorf("host login template: %w", err)
	}

	return t, nil
}
