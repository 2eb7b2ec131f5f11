package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"inventory/internal/api"
	"inventory/internal/config"
	"inventory/internal/inventory"
	"inventory/internal/logging"
	"inventory/internal/sysinfo"
)

const usage = `inventory - collect system properties from hosts into an in-memory inventory

Usage:
  inventory serve --config <path> [--listen :9081] [--system-port 9080]
  inventory system --config <path> [--listen :9080] [--stun a,b]
  inventory get --server <addr> <hostname>
  inventory list --server <addr> [--format table|json|yaml]
  inventory reset --server <addr>
  inventory health --server <addr>
  inventory config init --config <path>
`

const defaultServer = "127.0.0.1:9081"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "-h", "--help", "help":
		fmt.Print(usage)
	case "serve":
		handleServe(os.Args[2:])
	case "system":
		handleSystem(os.Args[2:])
	case "get":
		handleGet(os.Args[2:])
	case "list":
		handleList(os.Args[2:])
	case "reset":
		handleReset(os.Args[2:])
	case "health":
		handleHealth(os.Args[2:])
	case "config":
		handleConfig(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func handleServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	listen := fs.String("listen", "", "listen address")
	systemPort := fs.Int("system-port", 0, "port system peers listen on")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	if cfg.Inventory == nil {
		cfg.Inventory = &config.InventoryConfig{}
	}
	config.ApplyDefaults(&cfg)
	if err := config.ApplyEnv(&cfg, os.Getenv); err != nil {
		fatal(err)
	}
	overrideInventory(cfg.Inventory, *listen, *systemPort)
	if err := config.Validate(cfg); err != nil {
		fatal(err)
	}

	log, err := newLogger("inventory", cfg.Logging)
	if err != nil {
		fatal(err)
	}
	defer log.Close()

	ctx, cancel := signalContext()
	defer cancel()

	srv := inventory.NewServer(*cfg.Inventory, log)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Errorf("serve: %v", err)
		fatal(err)
	}
}

func handleSystem(args []string) {
	fs := flag.NewFlagSet("system", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	listen := fs.String("listen", "", "listen address")
	stunList := fs.String("stun", "", "comma-separated STUN servers")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	if cfg.System == nil {
		cfg.System = &config.SystemConfig{}
	}
	overrideSystem(cfg.System, *listen, *stunList)
	config.ApplyDefaults(&cfg)
	if err := config.Validate(cfg); err != nil {
		fatal(err)
	}

	log, err := newLogger("system", cfg.Logging)
	if err != nil {
		fatal(err)
	}
	defer log.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if err := sysinfo.NewServer(*cfg.System, log).ListenAndServe(ctx); err != nil {
		log.Errorf("serve: %v", err)
		fatal(err)
	}
}

func handleGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	server := fs.String("server", defaultServer, "inventory host:port")
	format := fs.String("format", "table", "output format: table|json|yaml")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprint(os.Stderr, "get requires exactly one hostname\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	resp, err := api.NewClient(normalizeBaseURL(*server)).Properties(ctx, fs.Arg(0))
	if err != nil {
		fatal(err)
	}
	if resp.Fallback {
		fmt.Fprintf(os.Stderr, "warning: fallback response (%s)\n", resp.Reason)
	}
	if err := writeProperties(os.Stdout, *format, resp.Properties); err != nil {
		fatal(err)
	}
}

func handleList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	server := fs.String("server", defaultServer, "inventory host:port")
	format := fs.String("format", "table", "output format: table|json|yaml")
	_ = fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := api.NewClient(normalizeBaseURL(*server)).Systems(ctx)
	if err != nil {
		fatal(err)
	}
	if err := writeEntries(os.Stdout, *format, entries); err != nil {
		fatal(err)
	}
}

func handleReset(args []string) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	server := fs.String("server", defaultServer, "inventory host:port")
	_ = fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := api.NewClient(normalizeBaseURL(*server)).Reset(ctx); err != nil {
		fatal(err)
	}
	fmt.Fprintln(os.Stdout, "inventory reset")
}

func handleHealth(args []string) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	server := fs.String("server", defaultServer, "inventory host:port")
	_ = fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := api.NewClient(normalizeBaseURL(*server)).Health(ctx)
	if err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stdout, "status=%s systems=%d\n", resp.Status, resp.Systems)
}

func handleConfig(args []string) {
	if len(args) == 0 || args[0] != "init" {
		fmt.Fprint(os.Stderr, "config subcommand required: init\n")
		os.Exit(2)
	}

	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	configPath := fs.String("config", "", "path to write")
	_ = fs.Parse(args[1:])
	if *configPath == "" {
		fatal(errors.New("--config is required"))
	}

	cfg := config.Config{
		Inventory: &config.InventoryConfig{},
		System:    &config.SystemConfig{},
	}
	if err := config.Save(*configPath, cfg); err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", *configPath)
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	return config.Load(path)
}

func overrideInventory(cfg *config.InventoryConfig, listen string, systemPort int) {
	if listen != "" {
		cfg.Listen = listen
	}
	if systemPort != 0 {
		cfg.SystemPort = systemPort
	}
}

func overrideSystem(cfg *config.SystemConfig, listen, stunList string) {
	if listen != "" {
		cfg.Listen = listen
	}
	if stunList != "" {
		cfg.STUNServers = splitList(stunList)
	}
}

func newLogger(prefix string, cfg config.LoggingConfig) (*logging.Logger, error) {
	return logging.New(prefix, cfg.Path, logging.ParseLevel(cfg.Level))
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeBaseURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	return "http://" + addr
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func fatal(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
