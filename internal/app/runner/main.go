// Package runner wires flags, config file, and credentials into one CLI
// search run.
package runner

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"echoforge/internal/app/console"
	"echoforge/internal/app/core"
	"echoforge/internal/app/orchestrate"
)

// Run is the CLI entry point. It exits the process on failure.
func Run() {
	var (
		target      = flag.String("target", "", "search target (person name, email, or phone)")
		targetType  = flag.String("type", core.TargetPerson, "target type: person, email, phone")
		maxResults  = flag.Int("max-results", 0, "max results per dork (0 uses the configured default)")
		darkWeb     = flag.Bool("dark-web", false, "add dark-web dorks and the alternate onion index")
		deepSearch  = flag.Bool("deep", false, "enable deep search")
		noSocial    = flag.Bool("no-social", false, "drop social-media dorks")
		output      = flag.String("o", "", "export report to this JSON file")
		configPath  = flag.String("config", "", "config file path (default ~/.config/echoforge/config.yaml)")
		verbose     = flag.Bool("v", false, "verbose output")
		noColors    = flag.Bool("no-colors", false, "disable ANSI colors")
	)
	flag.Parse()

	console.NoColors = *noColors
	console.ShowBanner()

	if *target == "" {
		console.LogErr("[!] -target is required")
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfigFile(*configPath)
	if err != nil {
		console.LogErr("[!] Failed to load config file: %v", err)
		os.Exit(1)
	}
	cfg.Logger = logger

	creds, err := loadCredentials()
	if err != nil {
		console.LogErr("[!] %v", err)
		os.Exit(1)
	}

	orch, err := orchestrate.New(cfg, creds)
	if err != nil {
		console.LogErr("[!] %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console.Logv(*verbose, "[*] Target: %s (%s)", *target, *targetType)
	report, err := orch.Run(ctx, *target, *targetType, *maxResults, core.Options{
		DeepSearch:  *deepSearch,
		DarkWeb:     *darkWeb,
		SocialMedia: !*noSocial,
	})
	if err != nil {
		console.LogErr("[!] Search failed: %v", err)
		os.Exit(1)
	}

	if *output != "" {
		path, err := orchestrate.ExportJSON(report, *output)
		if err != nil {
			console.LogErr("[!] Export failed: %v", err)
			os.Exit(1)
		}
		console.LogOK("[+] Report written to %s (%d results, quota %d/%d used)",
			path, report.Metadata.TotalResults,
			report.Metadata.QuotaUsed, report.Metadata.QuotaUsed+report.Metadata.QuotaRemaining)
		return
	}

	out, err := orchestrate.ReportJSON(report)
	if err != nil {
		console.LogErr("[!] %v", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

// loadCredentials pulls the search-provider credentials from the environment
// (.env honored). When the API key is absent and stdin is a terminal, the
// user is prompted once without echo.
func loadCredentials() (core.Credentials, error) {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	creds := core.Credentials{
		APIKey: os.Getenv("GOOGLE_API_KEY"),
		CXID:   os.Getenv("GOOGLE_CX_ID"),
	}

	if creds.APIKey == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Google API key: ")
		key, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err == nil {
			creds.APIKey = strings.TrimSpace(string(key))
		}
	}

	if err := creds.Validate(); err != nil {
		return core.Credentials{}, err
	}
	return creds, nil
}
