package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"blinkdrone/internal/admin"
	"blinkdrone/internal/config"
	"blinkdrone/internal/listener"
	"blinkdrone/internal/logging"
	"blinkdrone/internal/sim"
)

var (
	flyConfigPath string
	flySchemaPath string
	flyHeadless   bool
	flyHost       string
	flyPort       int
	flyAdmin      string
	flyLogFile    string
	flyJSON       bool
)

var flyCmd = &cobra.Command{
	Use:   "fly",
	Short: "Fly the drone",
	Long:  "fly listens for OSC blink events and renders the drone in the terminal. Press SPACE for a test blink and ESC to quit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flyConfigPath, flySchemaPath)
		if err != nil {
			return err
		}
		applyFlyFlags(cmd, cfg)

		headless := flyHeadless || !term.IsTerminal(int(os.Stdout.Fd()))
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		var opts []sim.Option
		if headless && flyJSON {
			opts = append(opts, sim.WithStateWriter(sim.NewJSONStdoutWriter(cmd.OutOrStdout())))
		}
		a, err := newApp(ctx, cfg, headless, cmd.OutOrStdout(), opts...)
		if err != nil {
			return err
		}
		defer a.close()
		return a.run(ctx)
	},
}

func init() {
	flyCmd.Flags().StringVar(&flyConfigPath, "config", "", "Path to YAML configuration (defaults are used when empty)")
	flyCmd.Flags().StringVar(&flySchemaPath, "schema", "", "Path to CUE schema file (embedded schema when empty)")
	flyCmd.Flags().BoolVar(&flyHeadless, "headless", false, "Run physics without drawing (implied when stdout is not a terminal)")
	flyCmd.Flags().StringVar(&flyHost, "host", config.DefaultHost, "OSC listen host")
	flyCmd.Flags().IntVar(&flyPort, "port", config.DefaultPort, "OSC listen port")
	flyCmd.Flags().StringVar(&flyAdmin, "admin", "", "Serve the admin UI on this address (e.g. 127.0.0.1:8080)")
	flyCmd.Flags().StringVar(&flyLogFile, "log-file", "", "Write logs to a rotating file")
	flyCmd.Flags().BoolVar(&flyJSON, "json", false, "In headless mode, print one JSON state row per second")
}

// applyFlyFlags lets explicitly set flags win over the config file.
func applyFlyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Listener.Host = flyHost
	}
	if flags.Changed("port") {
		cfg.Listener.Port = flyPort
	}
	if flags.Changed("admin") {
		cfg.Admin.Enabled = flyAdmin != ""
		cfg.Admin.Addr = flyAdmin
	}
	if flags.Changed("log-file") {
		cfg.Log.File = flyLogFile
	}
}

type app struct {
	cfg       *config.Config
	headless  bool
	log       *slog.Logger
	logCloser io.Closer
	sim       *sim.Simulator
	listener  *listener.Listener
}

// newApp wires the simulator and binds the OSC listener. A bind failure is
// returned as is and ends the process.
func newApp(ctx context.Context, cfg *config.Config, headless bool, out io.Writer, opts ...sim.Option) (*app, error) {
	console := out
	if !headless {
		// Console logs are dropped while the TUI owns the terminal.
		console = nil
	}
	logger, closer := logging.NewFromConfig(cfg.Log, console)
	ctx = logging.NewContext(ctx, logger)

	simulator := sim.NewSimulator(append([]sim.Option{sim.WithContext(ctx)}, opts...)...)
	lst := listener.New(cfg.Listener, simulator)
	if err := lst.Listen(); err != nil {
		closer.Close()
		return nil, err
	}
	printBanner(out, lst.Addr())

	return &app{cfg: cfg, headless: headless, log: logger, logCloser: closer, sim: simulator, listener: lst}, nil
}

func (a *app) run(parent context.Context) error {
	ctx, cancel := context.WithCancel(logging.NewContext(parent, a.log))
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.listener.Serve(gctx) })
	if a.cfg.Admin.Enabled {
		srv := admin.NewServer(a.sim)
		g.Go(func() error { return srv.Start(gctx, a.cfg.Admin.Addr) })
	}
	g.Go(func() error {
		defer cancel()
		if a.headless {
			a.sim.Run(gctx)
			return nil
		}
		return sim.RunTUI(gctx, a.sim, a.cfg.Display)
	})

	err := g.Wait()
	a.log.Info("drone simulation stopped", "blinks", a.sim.Snapshot().Blinks, "session", a.sim.SessionID())
	return err
}

func (a *app) close() {
	a.logCloser.Close()
}

func printBanner(w io.Writer, addr net.Addr) {
	rule := strings.Repeat("=", 50)
	port := 0
	if ua, ok := addr.(*net.UDPAddr); ok {
		port = ua.Port
	}
	fmt.Fprintf(w, "OSC Server listening on port %d...\n", port)
	fmt.Fprintln(w, "Waiting for blink signals from Muse...")
	fmt.Fprintf(w, "\n%s\nBLINK-CONTROLLED DRONE\n%s\n", rule, rule)
	fmt.Fprintln(w, "Put on your Muse headband")
	fmt.Fprintln(w, "BLINK to make the drone go UP!")
	fmt.Fprintln(w, "Try to keep it in the middle of the screen")
	fmt.Fprintf(w, "%s\n\n", rule)
}
