package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/platform/web"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// disabledAddr turns a server off.
const disabledAddr = "off"

var (
	flagSSHAddr  string
	flagHTTPAddr string
	flagHostKey  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game over SSH and HTTP/WebSocket",
	Long: `Start an SSH server and an HTTP server for remote play.

Each SSH user and each browser player gets their own game session and
their own best score. Finished games are recorded in the shared database.

HTTP endpoints:
  GET /              - Browser client
  GET /ws            - WebSocket game session (?player=&difficulty=)
  GET /healthz       - Health and active session count
  GET /api/best      - Best score (?player=)
  GET /api/scores    - Top games, or a player's recent games (?player=&limit=)
  GET /api/sessions  - Active sessions

Pass "off" as an address to disable that server.

Examples:
  snake serve                          # Addresses from config
  snake serve --ssh :2222 --http off   # SSH only
  snake serve --host-key ./host_key    # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, or off)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP server address (host:port, or off)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
}

func runServe(_ *cobra.Command, _ []string) {
	srvCfg := appConfig.Server
	if flagSSHAddr != "" {
		srvCfg.SSHAddr = flagSSHAddr
	}
	if flagHTTPAddr != "" {
		srvCfg.HTTPAddr = flagHTTPAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKeyPath = flagHostKey
	}
	sshOn := srvCfg.SSHAddr != "" && srvCfg.SSHAddr != disabledAddr
	httpOn := srvCfg.HTTPAddr != "" && srvCfg.HTTPAddr != disabledAddr
	if !sshOn && !httpOn {
		fmt.Fprintln(os.Stderr, "Error: both servers are disabled")
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, "snake")

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	factory := &session.Factory{
		Config:  appConfig,
		Store:   store,
		History: store,
		Logger:  logger,
		Seed:    flagSeed,
	}
	sessions := session.NewRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 2)
	var shutdowns []func(context.Context) error

	if sshOn {
		sshSrv, err := tui.NewSSHServer(
			tui.SSHServerConfigFrom(srvCfg), factory, store, sessions,
			logger.WithPrefix("snake-ssh"),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating SSH server: %v\n", err)
			os.Exit(1)
		}
		shutdowns = append(shutdowns, sshSrv.Shutdown)
		go func() { errs <- sshSrv.ListenAndServe() }()
		fmt.Printf("SSH:  ssh localhost -p %s\n", portOf(srvCfg.SSHAddr))
	}

	if httpOn {
		webSrv := web.New(web.Options{
			Factory:        factory,
			Scores:         store,
			Sessions:       sessions,
			Logger:         logger.WithPrefix("snake-web"),
			AllowedOrigins: srvCfg.AllowedOrigins,
		})
		shutdowns = append(shutdowns, webSrv.Shutdown)
		go func() { errs <- webSrv.ListenAndServe(srvCfg.HTTPAddr) }()
		fmt.Printf("HTTP: http://localhost:%s\n", portOf(srvCfg.HTTPAddr))
	}
	fmt.Println("Press Ctrl+C to stop")

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errs:
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, shutdown := range shutdowns {
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", "error", err)
		}
	}

	if serveErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		os.Exit(1)
	}
}

// portOf returns the port of a host:port address.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
