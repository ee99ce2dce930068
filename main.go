package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/siegeai/siegeprobe/observe"
	"github.com/siegeai/siegeprobe/probe"
	"github.com/siegeai/siegeprobe/schemacheck"
)

func main() {
	_ = godotenv.Load()
	level := getEnv("SIEGE_LOG", "info")

	err := setupLogging(level)
	if err != nil {
		slog.Error("could not init logging", "err", err)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if len(os.Args) > 1 && os.Args[1] == "functions" {
		if len(os.Args) < 3 {
			slog.Error("usage: siegeprobe functions <openapi file>")
			return
		}
		if err := listFunctions(ctx, os.Args[2], os.Stdout); err != nil {
			slog.Error("could not list functions", "file", os.Args[2], "err", err)
		}
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("could not load config", "err", err)
		return
	}

	if len(os.Args) > 1 && os.Args[1] == "invoke" {
		if len(os.Args) < 4 {
			slog.Error("usage: siegeprobe invoke <openapi file> <operation id>")
			return
		}
		if err := invokeOperation(ctx, cfg, os.Args[2], os.Args[3], os.Stdout); err != nil {
			slog.Error("could not invoke operation", "file", os.Args[2], "operation", os.Args[3], "err", err)
		}
		return
	}

	runWorkflow(ctx, cfg, os.Stdout)
}

func runWorkflow(ctx context.Context, cfg config, out io.Writer) {
	httpClient := &http.Client{Timeout: cfg.timeout}

	var rec *observe.Recorder
	if cfg.observed != "" {
		rec = observe.NewRecorder(http.DefaultTransport)
		httpClient.Transport = rec
	}

	client, err := probe.NewClient(cfg.endpoint, probe.WithHTTPClient(httpClient))
	if err != nil {
		slog.Error("could not init client", "err", err)
		return
	}

	w := probe.NewWorkflow(client, out)
	w.ItemID = cfg.itemID
	w.Pause = cfg.pause
	w.SchemaFile = cfg.schemaFile

	slog.Debug("running", "endpoint", client.Endpoint, "pause", cfg.pause)
	res, err := w.Run(ctx)
	if err != nil {
		slog.Warn("run interrupted", "err", err)
	}
	slog.Debug("schema checked", "file", cfg.schemaFile, "valid", res.Valid)

	if rec != nil {
		if err := rec.WriteFile(cfg.observed); err != nil {
			slog.Warn("could not write observed doc", "file", cfg.observed, "err", err)
		} else {
			slog.Info("wrote observed doc", "file", cfg.observed)
		}
	}
}

func listFunctions(ctx context.Context, name string, out io.Writer) error {
	fs, err := schemacheck.LoadFunctions(ctx, name)
	if err != nil {
		return err
	}
	return schemacheck.WriteFunctions(out, fs)
}

// invokeOperation calls operation id of the document in name against the
// document's first server. Operations taking a body get the laptop item, path
// parameters get the configured item id.
func invokeOperation(ctx context.Context, cfg config, name, id string, out io.Writer) error {
	doc, err := schemacheck.LoadDocument(ctx, name)
	if err != nil {
		return err
	}

	f, op, err := schemacheck.FindOperation(doc, id)
	if err != nil {
		return err
	}

	base, err := schemacheck.ServerURL(doc)
	if err != nil {
		return err
	}

	client, err := probe.NewClient(base, probe.WithHTTPClient(&http.Client{Timeout: cfg.timeout}))
	if err != nil {
		return err
	}

	path := f.Path
	for _, p := range f.Params {
		path = strings.ReplaceAll(path, "{"+p+"}", cfg.itemID)
	}

	var body any
	if op.RequestBody != nil {
		item := probe.LaptopItem()
		body = &item
	}

	slog.Debug("invoking", "operation", f.Name, "method", f.Method, "url", client.Endpoint+path)
	res, err := client.Invoke(ctx, f.Method, path, body)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s\n", res)
	return err
}

type config struct {
	endpoint   string
	itemID     string
	pause      time.Duration
	timeout    time.Duration
	schemaFile string
	observed   string
}

func loadConfig() (config, error) {
	cfg := config{
		endpoint:   getEnv("SIEGE_ENDPOINT", probe.DefaultEndpoint),
		itemID:     getEnv("SIEGE_ITEM_ID", probe.DefaultItemID),
		schemaFile: getEnv("SIEGE_SCHEMA_FILE", probe.DefaultSchemaFile),
		observed:   getEnv("SIEGE_OBSERVED", ""),
	}

	var err error
	if cfg.pause, err = time.ParseDuration(getEnv("SIEGE_PAUSE", probe.DefaultPause.String())); err != nil {
		return cfg, fmt.Errorf("SIEGE_PAUSE: %w", err)
	}
	if cfg.timeout, err = time.ParseDuration(getEnv("SIEGE_TIMEOUT", "0s")); err != nil {
		return cfg, fmt.Errorf("SIEGE_TIMEOUT: %w", err)
	}
	return cfg, nil
}

func setupLogging(level string) error {
	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(level))
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
	return err
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
