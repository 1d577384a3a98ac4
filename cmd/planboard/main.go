package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"planboard/internal/config"
	"planboard/internal/fetch"
	appLog "planboard/internal/log"
	"planboard/internal/planning"
	"planboard/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
	dump       bool
}

func main() {
	flags := parseFlags(os.Args[1:])

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	appLog.SetLevelFromString(conf.LogLevel)

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("planboard starting",
		"listen", conf.Listen,
		"fetch_mode", conf.FetchMode,
		"refresh", conf.RefreshCron,
		"once", flags.once,
		"dump", flags.dump,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.dump {
		if err := runDump(ctx, conf, os.Stdout); err != nil {
			appLog.Error("page dump failed", err)
			os.Exit(1)
		}
		return
	}

	if flags.once {
		if err := runOnce(ctx, conf, os.Stdout); err != nil {
			appLog.Error("single-shot extraction failed", err)
			os.Exit(1)
		}
		return
	}

	// Periodic refresh keeps the disk cache warm and surfaces the period
	// consistency report in the logs even when nobody queries the API.
	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() { refresh(ctx, conf) }); err != nil {
		appLog.Error("invalid refresh cron expression", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	go func() {
		if err := web.StartServer(ctx, conf); err != nil {
			appLog.Error("HTTP server stopped", err)
			cancel()
		}
	}()

	<-ctx.Done()
	time.Sleep(100 * time.Millisecond)
	appLog.Info("planboard exiting")
}

// fetchPage retrieves the planning page honoring the configured fetch mode.
func fetchPage(ctx context.Context, conf *config.Config) (string, error) {
	if conf.FetchMode == config.FetchModeBrowser {
		res, err := fetch.FetchRendered(ctx, fetch.BrowserOptions{
			URL:           conf.PlanningURL,
			SessionCookie: conf.SessionCookie,
			UserAgent:     conf.UserAgent,
		})
		if err != nil {
			return "", err
		}
		return string(res.Body), nil
	}

	f := fetch.NewFetcher(conf.CacheDir, conf.SessionCookie, conf.UserAgent)
	res, err := f.Fetch(ctx, conf.PlanningURL)
	if err != nil {
		return "", err
	}
	return string(res.Body), nil
}

// refresh is the cron job body: refetch, re-extract the period, and log the
// consistency verdict so markup drift is noticed without anyone watching
// the API.
func refresh(ctx context.Context, conf *config.Config) {
	body, err := fetchPage(ctx, conf)
	if err != nil {
		appLog.Error("refresh: fetch failed", err)
		return
	}

	period := planning.PeriodFromHTML(body)
	if period.Error != "" {
		appLog.Warn("refresh: period extraction reported problems", "detail", period.Error)
	}
	if period.Verification.IsConsistent {
		appLog.Info("refresh: period verified",
			"month", period.Month, "year", period.Year, "days", len(period.Days))
	} else {
		appLog.Warn("refresh: period consistency check failed",
			"message", period.Verification.Message)
	}
}

// runDump fetches the planning page once and writes the raw HTML to w, for
// inspecting the live markup without going through extraction.
func runDump(ctx context.Context, conf *config.Config, w io.Writer) error {
	body, err := fetchPage(ctx, conf)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, body)
	return err
}

// runOnce performs a single fetch+extract cycle and writes the combined
// roster/period/grid JSON to w.
func runOnce(ctx context.Context, conf *config.Config, w io.Writer) error {
	body, err := fetchPage(ctx, conf)
	if err != nil {
		return err
	}

	out := struct {
		Roster []string `json:"roster"`
		Period any      `json:"period"`
		Grid   any      `json:"grid"`
	}{}

	out.Roster, err = planning.RosterFromHTML(body)
	if err != nil {
		return err
	}
	out.Period = planning.PeriodFromHTML(body)
	out.Grid = planning.GridFromHTML(body, nil, -1)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func parseFlags(args []string) flagConfig {
	var cfg flagConfig

	fs := flag.NewFlagSet("planboard", flag.ExitOnError)
	fs.StringVar(&cfg.configPath, "config", "/etc/planboard/config.yaml", "Path to config file")
	fs.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	fs.BoolVar(&cfg.once, "once", false, "Run one fetch+extract cycle, print JSON, and exit")
	fs.BoolVar(&cfg.dump, "dump", false, "Fetch the planning page once, print the raw HTML, and exit")

	// ExitOnError: Parse only fails fatally.
	_ = fs.Parse(args)

	return cfg
}
