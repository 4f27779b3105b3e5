package main

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/laaroybafyh/WatercoinAIxHBAR/internal/adapters/observability"
	"github.com/laaroybafyh/WatercoinAIxHBAR/pkg/watercoin"
)

//go:embed assets/banner_color.ansi
var bannerColor string

//go:embed assets/banner_plain.txt
var bannerPlain string

func main() {
	if len(os.Args) < 2 {
		fmt.Print(selectBanner())
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		fmt.Print(selectBanner())
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "sample":
		err = sampleCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(selectBanner())
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "watercoin-engine %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to engine configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := watercoin.LoadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	rt, err := watercoin.NewRuntime(cfg, watercoin.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("build runtime: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting engine",
		zap.String("config", *cfgPath),
		zap.Strings("devices", rt.Devices()),
		zap.Duration("tick_interval", cfg.Engine.TickInterval))
	if err := rt.Run(ctx); err != nil {
		return err
	}
	logger.Info("engine stopped")
	return nil
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := watercoin.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	fmt.Printf("config %s looks good: %d device(s), sink=%s, opcua=%v\n",
		*cfgPath, len(cfg.Devices), cfg.Sink.Kind, cfg.OPCUA.Enabled)
	return nil
}

// sampleCommand prints readings from a standalone engine, one JSON object per line.
func sampleCommand(args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	n := fs.Int("n", 10, "Number of readings to generate")
	seed := fs.Uint64("seed", 0, "Seed for a reproducible run (0 = random)")
	uvOn := fs.Bool("uv", true, "UV sterilizer state")
	device := fs.String("device", "", "Device id stamped on packets")
	summary := fs.Bool("summary", false, "Print one line per reading instead of JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := []watercoin.EngineOption{}
	if *seed != 0 {
		opts = append(opts, watercoin.WithSeed(*seed))
	}
	if *device != "" {
		opts = append(opts, watercoin.WithDevice(*device, ""))
	}
	engine, err := watercoin.NewEngine(opts...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for i := 0; i < *n; i++ {
		r := engine.Next(*uvOn)
		r.Seq = uint64(i + 1)
		if !*summary {
			if err := enc.Encode(r); err != nil {
				return err
			}
			continue
		}
		brand := "-"
		if r.Brand != nil {
			brand = r.Brand.Name
		}
		fmt.Printf("%4d %-4s %-38s brand=%s reason=%q\n", r.Seq, r.Label, r.Headline, brand, r.Verdict.Reason)
	}
	return nil
}

func selectBanner() string {
	if os.Getenv("NO_COLOR") != "" {
		return bannerPlain
	}
	return bannerColor
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"watercoin_readings_published_total": 0,
		"watercoin_queue_dropped_total":      0,
		"watercoin_overrides_applied_total":  0,
		"watercoin_queue_length":             0,
	}
	var safe, unsafe float64

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "watercoin_readings_total{") {
			if v, ok := sampleValue(line); ok {
				if strings.Contains(line, `safe="true"`) {
					safe += v
				} else {
					unsafe += v
				}
			}
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				if v, ok := sampleValue(line); ok {
					targets[key] = v
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] safe=%.0f unsafe=%.0f published=%.0f dropped=%.0f overrides=%.0f queue=%.0f\n",
		time.Now().Format(time.RFC3339),
		safe, unsafe,
		targets["watercoin_readings_published_total"],
		targets["watercoin_queue_dropped_total"],
		targets["watercoin_overrides_applied_total"],
		targets["watercoin_queue_length"],
	)
	return nil
}

// sampleValue parses the value column of a text-format metric line.
func sampleValue(line string) (float64, bool) {
	i := strings.LastIndexByte(line, ' ')
	if i < 0 {
		return 0, false
	}
	var v float64
	if _, err := fmt.Sscanf(line[i+1:], "%g", &v); err != nil {
		return 0, false
	}
	return v, true
}

func printUsage() {
	fmt.Printf(`Watercoin telemetry engine CLI

Usage:
  watercoin-engine <command> [flags]

Commands:
  run        Start the runtime (tick loop, sink, HTTP API) using the provided config
  validate   Load and validate a config file without starting the runtime
  sample     Generate readings from a standalone engine and print them
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  watercoin-engine run -config ./data/config.yaml
  watercoin-engine validate -config ./data/config.yaml
  watercoin-engine sample -n 60 -seed 42 -summary
  watercoin-engine stats -url http://localhost:9100/metrics -interval 1s
`)
}
