package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/rosterdraw/internal/auth"
	"github.com/abrezinsky/rosterdraw/internal/config"
	"github.com/abrezinsky/rosterdraw/internal/handlers"
	"github.com/abrezinsky/rosterdraw/internal/logger"
	"github.com/abrezinsky/rosterdraw/internal/metrics"
	"github.com/abrezinsky/rosterdraw/internal/models"
	"github.com/abrezinsky/rosterdraw/internal/repository"
	"github.com/abrezinsky/rosterdraw/internal/roster"
	"github.com/abrezinsky/rosterdraw/internal/services"
	"github.com/abrezinsky/rosterdraw/internal/websocket"
	"github.com/abrezinsky/rosterdraw/pkg/naming"
)

// shutdownTimeout bounds how long in-flight requests get on shutdown
const shutdownTimeout = 5 * time.Second

// App holds all application dependencies
type App struct {
	log       logger.Logger
	handlers  *handlers.Handlers
	repo      *repository.Repository
	settings  *services.SettingsService
	draw      *services.DrawService
	hub       *websocket.Hub
	cancelHub context.CancelFunc
	closeOnce sync.Once
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config, namer naming.Client, templatesFS, staticFS fs.FS, hostAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	m.ObserveSessions(hostAuth.SessionCount)
	store := roster.NewStore()

	// Initialize services
	rosterService := services.NewRosterService(log, store, m)
	drawService := services.NewDrawService(log, repo, m, services.DrawOptions{
		Ticks:    cfg.DrawTicks,
		Interval: cfg.DrawInterval,
	})
	groupingService := services.NewGroupingService(log, store, repo, namer, m, nil)
	settingsService := services.NewSettingsService(log, repo)

	// Every roster replacement resets the draw pool
	store.Subscribe(drawService.SyncRoster)

	// New screens get the whole picture on connect
	hub := websocket.New(log, func(ctx context.Context) models.Snapshot {
		return models.Snapshot{
			Roster: rosterService.GetRoster(ctx),
			Draw:   drawService.State(ctx),
			Groups: groupingService.Current(ctx),
		}
	})
	hubCtx, cancelHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	rosterService.SetBroadcaster(hub)
	drawService.SetBroadcaster(hub)
	groupingService.SetBroadcaster(hub)

	// Create static file server
	staticServer := handlers.NewStaticServer(staticFS)

	h, err := handlers.New(
		rosterService,
		drawService,
		groupingService,
		settingsService,
		templatesFS,
		staticServer,
		hostAuth,
		hub,
		log,
		handlers.Options{
			CORSOrigins: cfg.CORSOrigins,
			Metrics:     m.Handler(),
		},
	)
	if err != nil {
		cancelHub()
		drawService.Close()
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		log:       log,
		handlers:  h,
		repo:      repo,
		settings:  settingsService,
		draw:      drawService,
		hub:       hub,
		cancelHub: cancelHub,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close stops the hub, waits for pending draws to archive and closes the database.
// It is safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.cancelHub()
		a.draw.Close()
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	})
}

// Run serves HTTP on addr until ctx is canceled, then shuts down gracefully
func (a *App) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	// Set default base URL if not configured, using detected LAN IP
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	ip := getPreferredIP(realNetworkProvider{})
	baseURL := fmt.Sprintf("http://%s:%s", ip, port)
	a.setDefaultBaseURL(ctx, baseURL)

	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("Server starting", "url", baseURL)
		a.log.Info("Host URL", "url", baseURL+"/host")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(ctx context.Context, baseURL string) {
	existing, err := a.settings.GetBaseURL(ctx)
	if err != nil {
		a.log.Warn("Failed to read base_url", "error", err)
		return
	}

	// Set default if empty or if current value uses localhost
	needsUpdate := existing == "" || strings.Contains(existing, "localhost")
	if needsUpdate {
		if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
			a.log.Warn("Failed to set default base_url", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			// Skip loopback
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
