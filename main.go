package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"thunder.klederson.com/internal/app"
	"thunder.klederson.com/internal/config"
	"thunder.klederson.com/internal/console"
	"thunder.klederson.com/internal/lightning"
	"thunder.klederson.com/internal/observability"
	"thunder.klederson.com/internal/panel"
	"thunder.klederson.com/internal/publish"
	"thunder.klederson.com/internal/station"
	"thunder.klederson.com/internal/ui"
	"thunder.klederson.com/internal/vt100"
)

var (
	flagPort         string
	flagBaud         int
	flagLayout       string
	flagWinter       bool
	flagDemo         bool
	flagPreview      bool
	flagMetricsAddr  string
	flagKafkaBrokers string
	flagKafkaTopic   string

	flagActive   bool
	flagStrikes  uint32
	flagDistance uint32
	flagEnergy   uint32
	flagMinutes  uint32
	flagPlain    bool
)

// plainRows covers the tallest layout: the full layout's legend sits on row 19.
const plainRows = 20

func main() {
	rootCmd := &cobra.Command{
		Use:   "thunder",
		Short: "Thunder - lightning detector front panel for VT100 serial terminals",
		Long: `Thunder drives the front panel of an AS3935 lightning detector on a VT100
compatible serial terminal: banner, strike count, distance, energy and the
minutes since the last strike, with single-key commands typed at the terminal.

Use --demo to feed simulated strikes and --preview to draw the panel in this
terminal instead of on a serial port.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVar(&flagPort, "port", "", "Serial port of the panel terminal (env THUNDER_PORT)")
	rootCmd.Flags().IntVar(&flagBaud, "baud", 0, "Serial baud rate (env THUNDER_BAUD)")
	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Feed simulated lightning events")
	rootCmd.Flags().BoolVar(&flagPreview, "preview", false, "Draw the panel in this terminal instead of a serial port")
	rootCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve /healthz, /readyz and /metrics on this address (env METRICS_ADDR)")
	rootCmd.Flags().StringVar(&flagKafkaBrokers, "kafka-brokers", "", "Comma-separated Kafka brokers for event publishing (env KAFKA_BROKERS)")
	rootCmd.Flags().StringVar(&flagKafkaTopic, "kafka-topic", "", "Kafka topic for lightning events (env KAFKA_TOPIC)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Write one panel redraw to stdout",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	renderCmd.Flags().BoolVar(&flagActive, "active", false, "Thunderstorm in progress")
	renderCmd.Flags().Uint32Var(&flagStrikes, "strikes", 0, "Strike count")
	renderCmd.Flags().Uint32Var(&flagDistance, "distance", 0, "Distance to the storm front in km")
	renderCmd.Flags().Uint32Var(&flagEnergy, "energy", 0, "Energy of the last strike")
	renderCmd.Flags().Uint32Var(&flagMinutes, "minutes", 0, "Minutes since the last strike")
	renderCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the resulting screen as text instead of the VT100 stream")

	for _, c := range []*cobra.Command{rootCmd, renderCmd} {
		c.Flags().StringVar(&flagLayout, "layout", "", "Panel layout: full or compact (env THUNDER_LAYOUT)")
		c.Flags().BoolVar(&flagWinter, "winter", false, "Start in winter mode (env THUNDER_WINTER)")
	}
	rootCmd.AddCommand(renderCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies any flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = flagPort
	}
	if flags.Changed("baud") {
		cfg.BaudRate = flagBaud
	}
	if flags.Changed("layout") {
		cfg.Layout = flagLayout
	}
	if flags.Changed("winter") {
		cfg.Winter = flagWinter
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = flagMetricsAddr
	}
	if flags.Changed("kafka-brokers") {
		cfg.KafkaBrokers = config.ParseBrokers(flagKafkaBrokers)
	}
	if flags.Changed("kafka-topic") {
		cfg.KafkaTopic = flagKafkaTopic
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func initialMode(winter bool) panel.Mode {
	if winter {
		return panel.ModeWinter
	}
	return panel.ModeSummer
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	layout, err := panel.LayoutByName(cfg.Layout)
	if err != nil {
		return err
	}

	// The preview owns this terminal, so its logs are discarded.
	logOut := io.Writer(os.Stderr)
	if flagPreview {
		logOut = io.Discard
	}
	logger := observability.NewLogger(logOut, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	st := station.New(nil, initialMode(cfg.Winter), cfg.StormTimeout)
	st.OnEvent(metrics.ObserveEvent)

	var wg sync.WaitGroup
	defer wg.Wait()

	if len(cfg.KafkaBrokers) > 0 {
		pub := publish.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, config.SerialNumber, logger, metrics)
		st.OnEvent(pub.Enqueue)

		// Cancelled after the panel stops so queued events get flushed.
		pubCtx, cancelPub := context.WithCancel(context.Background())
		defer cancelPub()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pub.Run(pubCtx); err != nil {
				logger.Error("kafka publisher stopped", "error", err)
			}
			if err := pub.Close(); err != nil {
				logger.Error("closing kafka writer", "error", err)
			}
		}()
		logger.Info("publishing lightning events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	var source lightning.Source
	if flagDemo {
		source = lightning.NewMockSource(nil, config.DemoInterval, time.Now().UnixNano())
	}

	if flagPreview {
		return runPreview(ctx, cfg, logger, st, layout, source)
	}
	return runConsole(ctx, cfg, logger, metrics, st, layout, source)
}

func runConsole(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics,
	st *station.Station, layout panel.Layout, source lightning.Source,
) error {
	port, err := console.OpenPort(cfg.Port, cfg.BaudRate)
	if err != nil {
		return err
	}
	defer port.Close()

	con := console.New(port, st, console.Options{
		Port:    cfg.Port,
		Layout:  layout,
		Build:   panel.DefaultBuildInfo(),
		Refresh: cfg.RefreshInterval,
		Logger:  logger,
		Metrics: metrics,
	})

	if cfg.MetricsAddr != "" {
		srv := observability.NewServer(cfg.MetricsAddr, con, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown", "error", err)
			}
		}()
	}

	if source != nil {
		if err := source.Start(st.Record); err != nil {
			return fmt.Errorf("starting demo source: %w", err)
		}
		defer source.Stop()
	}

	logger.Info("panel started",
		"port", cfg.Port,
		"baud", cfg.BaudRate,
		"layout", layout.Name,
		"mode", st.Mode().String(),
		"demo", source != nil,
	)

	if err := con.Run(ctx); err != nil {
		return err
	}
	logger.Info("shutting down")
	return nil
}

func runPreview(ctx context.Context, cfg *config.Config, logger *slog.Logger,
	st *station.Station, layout panel.Layout, source lightning.Source,
) error {
	model := app.New(st, layout, panel.DefaultBuildInfo(), source)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithFPS(config.TargetFPS),
	)

	if err := model.StartSource(p); err != nil {
		return fmt.Errorf("starting demo source: %w", err)
	}

	_, err := p.Run()
	model.StopSource()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	logger.Info("preview closed", "layout", cfg.Layout)
	return err
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	layout, err := panel.LayoutByName(cfg.Layout)
	if err != nil {
		return err
	}

	rd := panel.Reading{
		Active:                 flagActive,
		Strikes:                flagStrikes,
		Distance:               flagDistance,
		Energy:                 flagEnergy,
		MinutesSinceLastStrike: flagMinutes,
	}
	return renderPanel(cmd.OutOrStdout(), layout, rd, initialMode(cfg.Winter), flagPlain)
}

// renderPanel writes one full redraw to out: the raw VT100 stream, or with
// plain set the screen it produces as text rows.
func renderPanel(out io.Writer, layout panel.Layout, rd panel.Reading, mode panel.Mode, plain bool) error {
	build := panel.DefaultBuildInfo()
	if plain {
		screen := ui.NewScreen(plainRows, config.TerminalWidth)
		panel.NewRenderer(screen, layout, build).Redraw(rd, mode)
		for row := 1; row <= plainRows; row++ {
			if _, err := fmt.Fprintln(out, screen.Line(row)); err != nil {
				return fmt.Errorf("writing panel: %w", err)
			}
		}
		return nil
	}

	w := vt100.NewWriter(out)
	panel.NewRenderer(w, layout, build).Redraw(rd, mode)
	if err := w.Err(); err != nil {
		return fmt.Errorf("writing panel: %w", err)
	}
	return nil
}
