// Command rabbit-chase starts the Wolf and Rabbits game server.
//
// It supports two modes:
//  1. "server" (default) runs the HTTP server exposing the REST API, WebSocket updates and an /mcp HTTP endpoint
//  2. "stdio-mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/rabbit-chase-game/api"
	"github.com/wricardo/rabbit-chase-game/game/config"
	"github.com/wricardo/rabbit-chase-game/game/service"
	"github.com/wricardo/rabbit-chase-game/game/session"
	"github.com/wricardo/rabbit-chase-game/transport/mcp"
	"github.com/wricardo/rabbit-chase-game/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Wolf and Rabbits Game Server"
)

// options are the resolved command line settings
type options struct {
	Host      string
	Port      int
	ConfigDir string
	MatchTTL  time.Duration
}

func (o options) addr() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// services bundles everything both modes serve
type services struct {
	Game     service.GameService
	Sessions *session.Manager
	Hub      *websocket.Hub
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("error loading .env file")
		}
	} else {
		log.Info("loaded environment variables from .env file")
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newCommand builds the command tree. The root action runs the HTTP server.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "rabbit-chase",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing rule presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.DurationFlag{
				Name:    "match-ttl",
				Value:   24 * time.Hour,
				Usage:   "matches idle for longer than this are removed",
				Sources: cli.EnvVars("MATCH_TTL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("debug"))
			return ctx, nil
		},
		Action: runServerCommand,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "run the HTTP server with API, WebSocket and MCP endpoint",
				Action:  runServerCommand,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "run an MCP stdio server backed by an internal HTTP server",
				Action:  runStdioCommand,
			},
		},
	}
}

func setupLogging(debug bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func optionsFrom(cmd *cli.Command) options {
	return options{
		Host:      cmd.String("host"),
		Port:      int(cmd.Int("port")),
		ConfigDir: cmd.String("config-dir"),
		MatchTTL:  cmd.Duration("match-ttl"),
	}
}

func runServerCommand(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	log.WithField("mode", "server").Infof("starting %s v%s", AppName, Version)

	svc, err := initializeServices(opts.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	return runHTTPServer(ctx, svc, opts)
}

func runStdioCommand(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)
	log.WithField("mode", "stdio-mcp").Infof("starting %s v%s", AppName, Version)

	svc, err := initializeServices(opts.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	return runStdioMCPWithInternalServer(ctx, svc, opts)
}

// initializeServices wires the config and session managers, the websocket
// hub and the game service. The hub is not started.
func initializeServices(configDir string) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	hub := websocket.NewHub()
	gameService := service.NewGameService(sessionManager, configManager, service.WithNotifier(hub))

	return &services{
		Game:     gameService,
		Sessions: sessionManager,
		Hub:      hub,
	}, nil
}

// newRouter mounts the REST API at the root and the MCP endpoint at /mcp
func newRouter(svc *services, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(svc.Game, svc.Hub))
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))
	return mainRouter
}

func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runHTTPServer serves the API, WebSocket hub and /mcp until SIGINT or SIGTERM
func runHTTPServer(ctx context.Context, svc *services, opts options) error {
	go svc.Hub.Run()

	addr := opts.addr()
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      newRouter(svc, mcpClient),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessionCleanupRoutine(ctx, svc.Sessions, opts.MatchTTL)

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", addr)
		log.Infof("REST API: http://%s/api", addr)
		log.Infof("WebSocket: ws://%s/ws?match=<match_id>", addr)
		log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		svc.Game.Close()
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}
	svc.Game.Close()
	log.Info("server stopped")
	return nil
}

// sessionCleanupRoutine periodically removes matches that have not been
// accessed within maxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, maxAge time.Duration) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := manager.CleanupExpiredSessions(maxAge)
			if len(removed) > 0 {
				log.WithField("matches", removed).Infof("cleaned up %d expired matches", len(removed))
			}
		}
	}
}

// externalAPIAvailable reports whether a game server already answers on baseURL
func externalAPIAvailable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It reuses an API
// already listening on the configured port, otherwise it serves its own on a
// random loopback port. Logs go to stderr, stdout belongs to the protocol.
func runStdioMCPWithInternalServer(ctx context.Context, svc *services, opts options) error {
	log.SetOutput(os.Stderr)
	defer svc.Game.Close()

	externalURL := fmt.Sprintf("http://localhost:%d", opts.Port)
	log.Debugf("checking for external API server at %s", externalURL)

	baseURL := externalURL
	if externalAPIAvailable(externalURL) {
		log.Infof("external API server found at %s, using it for MCP", externalURL)
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())

		go svc.Hub.Run()
		httpServer := &http.Server{Handler: api.NewServer(svc.Game, svc.Hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		cleanupCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go sessionCleanupRoutine(cleanupCtx, svc.Sessions, opts.MatchTTL)

		log.Infof("internal HTTP server listening on %s for MCP stdio", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
