package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hamed0406/sitewatch/internal/config"
	"github.com/hamed0406/sitewatch/internal/httpadmin"
	"github.com/hamed0406/sitewatch/internal/logging"
	"github.com/hamed0406/sitewatch/internal/notify"
	"github.com/hamed0406/sitewatch/internal/report"
	"github.com/hamed0406/sitewatch/internal/runner"
	"github.com/hamed0406/sitewatch/internal/scheduler"
	"github.com/hamed0406/sitewatch/internal/stats"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [url ...]",
	Short: "Probe URLs once or on a fixed interval",
	Long: `Probe every URL with an HTTP GET, validate required response headers,
and print a result table. With --period the pass repeats on that interval,
accumulating per-URL uptime and latency statistics until stopped.

Examples:
  sitewatch check --workers 50 --timeout 5s https://example.org
  sitewatch check --period 10s --retries 1 --header 'Content-Type=text/plain' --file urls.txt`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	f := checkCmd.Flags()
	f.Int("workers", 50, "worker pool size ceiling")
	f.Duration("timeout", 5*time.Second, "per-attempt HTTP timeout")
	f.Int("retries", 0, "extra attempts on transport errors")
	f.Duration("period", 0, "repeat interval (0 = single run)")
	f.StringArray("header", nil, "required response header KEY=VALUE (repeatable)")
	f.String("file", "", "newline-delimited URL file ('#' comments ignored)")
	f.StringP("config", "c", "", "YAML config file")
	f.String("log-dir", "", "log directory (default \"logs\")")
	f.String("admin-addr", "", "bind address for the admin endpoint (empty = disabled)")
	f.Bool("verbose", false, "log at debug level")
}

// buildConfig resolves defaults, then the config file, then flags and
// positional URLs.
func buildConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg := config.Default()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		cfg, err = config.LoadFile(path, cfg)
		if err != nil {
			return cfg, err
		}
	}

	f := cmd.Flags()
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("timeout") {
		cfg.Timeout, _ = f.GetDuration("timeout")
	}
	if f.Changed("retries") {
		cfg.Retries, _ = f.GetInt("retries")
	}
	if f.Changed("period") {
		cfg.Period, _ = f.GetDuration("period")
	}
	if f.Changed("log-dir") {
		cfg.LogDir, _ = f.GetString("log-dir")
	}
	if f.Changed("admin-addr") {
		cfg.AdminAddr, _ = f.GetString("admin-addr")
	}

	headers, _ := f.GetStringArray("header")
	for _, h := range headers {
		hc, err := config.ParseHeader(h)
		if err != nil {
			return cfg, err
		}
		cfg.HeaderChecks = append(cfg.HeaderChecks, hc)
	}

	if path, _ := f.GetString("file"); path != "" {
		urls, err := config.ReadURLFile(path)
		if err != nil {
			return cfg, err
		}
		cfg.URLs = append(cfg.URLs, urls...)
	}
	cfg.URLs = append(cfg.URLs, args...)

	return cfg, cfg.Validate()
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	level := zapcore.InfoLevel
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = zapcore.DebugLevel
	}
	logger, err := logging.NewLogger(cfg.LogDir, level)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := runner.New(logger)
	console := report.NewConsole(os.Stdout)

	if cfg.Period == 0 {
		res, err := r.RunRound(ctx, cfg)
		console.Round(res)
		if err != nil {
			return fmt.Errorf("single run: %w", err)
		}
		return nil
	}

	return runPeriodic(ctx, cfg, logger, r, console)
}

func runPeriodic(ctx context.Context, cfg config.Config, logger *zap.Logger, r *runner.Runner, console *report.Console) error {
	sig := scheduler.NewShutdownSignal()
	agg := stats.NewAggregator()

	// ENTER stops the loop; so do SIGINT/SIGTERM via ctx.
	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		sig.Trigger()
	}()
	go func() {
		<-ctx.Done()
		sig.Trigger()
	}()

	var admin *http.Server
	if cfg.AdminAddr != "" {
		srv := httpadmin.NewServer(logger, agg, sig, cfg.AdminKey)
		admin = &http.Server{Addr: cfg.AdminAddr, Handler: srv.Router()}
		go func() {
			logger.Info("admin_listen", zap.String("addr", cfg.AdminAddr))
			if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("admin_serve_error", zap.Error(err))
			}
		}()
	}

	fmt.Printf("Periodic monitoring every %s. Press ENTER to stop...\n", cfg.Period)

	p := &scheduler.Periodic{
		Log:      logger,
		Runner:   r,
		Agg:      agg,
		Reporter: console,
		Signal:   sig,
		Period:   cfg.Period,
	}
	if slack := notify.NewSlack(cfg.SlackWebhook); slack != nil {
		p.Notifier = slack
	}

	// The loop runs on a background context: stop triggers only set the
	// shutdown flag, so an in-flight round always completes and is recorded.
	p.Run(context.Background(), cfg)

	if admin != nil {
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = admin.Shutdown(shutCtx)
	}
	return nil
}
