package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/prospect/internal/probe"
)

// Default configuration constants.
const (
	defaultYears        = "2019-2025"
	defaultLimit        = 100
	defaultTopN         = 10
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultProbeTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		years   = flag.String("years", defaultYears, "Years to check, comma separated with ranges")
		limit   = flag.Int("limit", defaultLimit, "Rankings fetched per year")
		topN    = flag.Int("top", defaultTopN, "Top entries per year checked individually")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Log file for probe output (default: probe_TIMESTAMP.log)")
		verbose = flag.Bool("verbose", false, "Log every ranked entry")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	yearList, err := probe.ParseYears(*years)
	if err != nil {
		os.Stderr.WriteString("Invalid -years: " + err.Error() + "\n")
		os.Exit(2)
	}

	closer, err := probe.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	config := &probe.Config{
		BaseURL: *baseURL,
		Years:   yearList,
		Limit:   *limit,
		TopN:    *topN,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	if _, err := probe.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		cancel()
		_ = closer.Close()
		os.Exit(1)
	}
}
