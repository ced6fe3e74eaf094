package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abrezinsky/rosterdraw/internal/app"
	"github.com/abrezinsky/rosterdraw/internal/auth"
	"github.com/abrezinsky/rosterdraw/internal/config"
	"github.com/abrezinsky/rosterdraw/internal/logger"
	"github.com/abrezinsky/rosterdraw/pkg/naming"
	"github.com/abrezinsky/rosterdraw/web"
)

// ANSI escape codes
const (
	clearLine = "\033[2K"
	moveUp    = "\033[%dA"
	reset     = "\033[0m"
	yellow    = "\033[33m"
	red       = "\033[31m"
	green     = "\033[32m"
	cyan      = "\033[36m"
	bold      = "\033[1m"
)

// showStartupAnimation displays the logo then a short slot-machine spin
func showStartupAnimation(skipSpin bool) {
	width := 62
	border := strings.Repeat("═", width)

	logo := []string{
		"    ____             _              ____                     ",
		"   |  _ \\ ___  ___| |_ ___ _ __  |  _ \\ _ __ __ ___      __  ",
		"   | |_) / _ \\/ __| __/ _ \\ '__| | | | | '__/ _` \\ \\ /\\ / /  ",
		"   |  _ < (_) \\__ \\ ||  __/ |    | |_| | | | (_| |\\ V  V /   ",
		"   |_| \\_\\___/|___/\\__\\___|_|    |____/|_|  \\__,_| \\_/\\_/    ",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s%-62s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n", cyan, border, reset)

	if skipSpin {
		fmt.Print("\n")
		return
	}

	names := []string{"Ada", "Grace", "Linus", "Ken", "Barbara", "Rob", "Margaret", "Dennis"}
	fmt.Printf(moveUp, 1)
	fmt.Printf("%s  %s╠%s╣%s\n", clearLine, cyan, border, reset)

	// Slow down like the real draw does before landing
	delay := 30 * time.Millisecond
	var shown string
	for frame := 0; frame < 18; frame++ {
		shown = names[rand.IntN(len(names))]
		fmt.Printf("%s  %s║%s%-62s%s║%s\n", clearLine, cyan, reset, centered(shown, width), cyan, reset)
		fmt.Printf("%s  %s╚%s╝%s\n", clearLine, cyan, border, reset)
		fmt.Printf(moveUp, 2)
		time.Sleep(delay)
		delay += 8 * time.Millisecond
	}
	fmt.Printf("%s  %s║%s%s%-62s%s║%s\n", clearLine, cyan, bold, yellow, centered("★ "+shown+" ★", width), cyan, reset)
	fmt.Printf("%s  %s╚%s╝%s\n\n", clearLine, cyan, border, reset)
}

func centered(s string, width int) string {
	pad := (width - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

var (
	version = "dev"
)

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string
	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	case "ERROR":
		next = "debug"
	default:
		next = "info"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	say("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	say("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	say("    %sa%s      - Open host console in browser\n", cyan, reset)
	say("    %sv%s      - Open viewer screen in browser\n", cyan, reset)
	say("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	say("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	say("    %sq%s      - Quit server\n", cyan, reset)
	say("    %s?%s      - Show this help\n\n", cyan, reset)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the environment
	flag.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite archive path")
	flag.StringVar(&cfg.HostPassword, "hostpw", cfg.HostPassword, "Host password (auto-generated if not set)")
	flag.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	noAnimate := flag.Bool("noanimate", false, "Show logo only, skip the spin animation")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `RosterDraw - Event roster, prize draw and team grouping

Usage:
  rosterdraw [options]

Options:
  -port int      HTTP server port (env PORT, default 8081)
  -db string     SQLite archive path (env DB_PATH, default ":memory:")
  -hostpw str    Host password (env HOST_PASSWORD, auto-generated if not set)
  -loglevel str  Log level: debug, info, warn, error (env LOG_LEVEL, default "info")
  -noanimate     Show logo only, skip the spin animation
  -nokeyboard    Disable keyboard shortcuts
  -version       Show version and exit
  -help          Show this help message

Environment (also read from .env):
  GEMINI_API_KEY, GEMINI_MODEL   AI team names via Gemini
  NAMING_URL, NAMING_TIMEOUT     AI team names via a JSON endpoint
  DRAW_TICKS, DRAW_INTERVAL      Draw animation length
  CORS_ORIGINS                   Origins allowed to read the public API
  LOG_NO_COLOR                   Plain log output

Keyboard Shortcuts (when enabled):
  a              Open host console in browser
  v              Open viewer screen in browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show keyboard help

Examples:
  rosterdraw                          # Run on port 8081, archive in memory
  rosterdraw -port 8080 -db draw.db   # Keep the results archive on disk
  rosterdraw -hostpw secret123        # Use a specific host password
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("rosterdraw %s\n", version)
		os.Exit(0)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	showStartupAnimation(*noAnimate)

	// Setup host authentication
	password := cfg.HostPassword
	if password == "" {
		password = auth.GeneratePassword()
	}
	hostAuth := auth.New(password)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var kb *keyboard
	if !*noKeyboard {
		if kb, err = newKeyboard(); err != nil {
			fmt.Fprintf(os.Stderr, "%sKeyboard shortcuts unavailable: %v%s\n", yellow, err, reset)
		}
	}
	defer kb.Restore()

	var logOut io.Writer = os.Stdout
	if kb != nil {
		logOut = crlfWriter{os.Stdout}
	}
	appLog := logger.NewWithOptions(logger.Options{
		Level:   logger.ParseLevel(cfg.LogLevel),
		Writer:  logOut,
		NoColor: cfg.LogNoColor,
	})

	namer, err := naming.New(ctx, cfg.Naming(), appLog)
	if err != nil {
		appLog.Error("Failed to initialize naming service", "error", err)
		kb.Restore()
		os.Exit(1)
	}

	a, err := app.New(appLog, cfg, namer, web.Templates(), web.Static(), hostAuth)
	if err != nil {
		appLog.Error("Failed to initialize application", "error", err)
		kb.Restore()
		os.Exit(1)
	}
	defer a.Close()

	appLog.Info("Host password", "password", password)

	hostURL := fmt.Sprintf("http://localhost:%d/host", cfg.Port)
	viewerURL := fmt.Sprintf("http://localhost:%d/", cfg.Port)

	if kb != nil {
		printKeyboardHelp()
		go kb.listen(ctx, stop, hostURL, viewerURL, appLog)
	} else {
		say("\n%sKeyboard shortcuts disabled%s\n\n", yellow, reset)
	}

	if err := a.Run(ctx, cfg.Addr()); err != nil {
		appLog.Error("Server error", "error", err)
		a.Close()
		kb.Restore()
		os.Exit(1)
	}
}
