package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-wall/internal/api"
	"github.com/vovakirdan/flappy-wall/internal/games/flappy"
	"github.com/vovakirdan/flappy-wall/internal/platform/tui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the flappy SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own game. Without a command the session
opens the mode menu; a command picks the mode directly. All sessions
share the configured score store.

With --http the leaderboard API is served as well, so players elsewhere
can use this server's boards with --store http://host:port.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.flappy/host_key

Examples:
  flappy serve                           # Listen on :23234 with auto-generated key
  flappy serve --ssh :2222               # Listen on port 2222
  flappy serve --http :8080              # Also serve the leaderboard API
  flappy serve --store redis://localhost:6379/0

Users can connect with:
  ssh -t localhost -p 23234
  ssh -t localhost -p 23234 daily`,
	RunE: runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.String("ssh", ":23234", "SSH server address (host:port)")
	flags.String("http", "", "Leaderboard API address (host:port); empty disables it")
	flags.String("host-key", "", "Path to host key file (auto-generated if not specified)")
	flags.Duration("idle-timeout", 0, "Idle timeout before disconnecting (default 30m)")

	for flag, key := range map[string]string{
		"ssh":          "server.ssh",
		"http":         "server.http",
		"host-key":     "server.host_key",
		"idle-timeout": "server.idle_timeout",
	} {
		if err := vp.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger(os.Stderr, "flappy")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := connect(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	srvCfg := tui.DefaultSSHServerConfig()
	srvCfg.Address = settings.Server.SSHAddr
	srvCfg.HostKeyPath = settings.Server.HostKey
	if settings.Server.IdleTimeout > 0 {
		srvCfg.IdleTimeout = settings.Server.IdleTimeout
	}
	srvCfg.Backend = backend
	srvCfg.Flappy = flappyCfg
	srvCfg.Sprites = flappy.LoadSprites(ctx, flappyCfg.Assets, nil, logger)
	srvCfg.FPS = settings.FPS
	srvCfg.Seed = settings.Seed
	srvCfg.Logger = logger.WithPrefix("ssh")

	sshServer, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	errCh := make(chan error, 2)
	running := 1
	go func() { errCh <- sshServer.ListenAndServe(ctx) }()

	if addr := settings.Server.HTTPAddr; addr != "" {
		boards := make([]string, 0)
		seen := make(map[string]bool)
		for _, info := range flappy.Variants() {
			mode, _ := flappy.Lookup(info.ID)
			if mode.Board != "" && !seen[mode.Board] {
				seen[mode.Board] = true
				boards = append(boards, mode.Board)
			}
		}
		apiServer := api.NewServer(backend, boards, logger.WithPrefix("api"))
		running++
		go func() { errCh <- apiServer.ListenAndServe(ctx, addr) }()
		fmt.Printf("Leaderboard API on %s\n", addr)
	}

	fmt.Printf("Starting flappy SSH server on %s\n", sshServer.Addr())
	fmt.Printf("Connect with: ssh -t localhost -p %s\n", port(sshServer.Addr()))
	fmt.Println("Press Ctrl+C to stop")

	// The first failure stops the rest.
	var errs []error
	for ; running > 0; running-- {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
			stop()
		}
	}
	return errors.Join(errs...)
}

// port extracts the port of a listen address for the connect hint.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}
