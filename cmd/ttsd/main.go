package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"ttsd/internal/config"
	"ttsd/internal/httpapi"
	"ttsd/internal/manager"
	"ttsd/pkg/types"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8080"
	if v := os.Getenv("TTSD_ADDR"); v != "" {
		defaultAddr = v
	}
	defaultModelDir := "model"
	if v := os.Getenv("TTSD_MODEL_DIR"); v != "" {
		defaultModelDir = v
	}
	defaultConfig := os.Getenv("TTSD_CONFIG")
	defaultXTTSURL := os.Getenv("TTSD_XTTS_URL")
	defaultXTTSBin := os.Getenv("TTSD_XTTS_BIN")

	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8080")
	configPath := flag.String("config", defaultConfig, "Optional config file (.yaml, .json or .toml)")
	modelDir := flag.String("model-dir", defaultModelDir, "Directory with config.json, vocab.json and the model checkpoint")
	refWav := flag.String("reference-wav", "", "Reference wav for speaker conditioning (default: vi_sample.wav in the model dir)")
	language := flag.String("language", "", "Default language for requests that omit one")
	xttsURL := flag.String("xtts-url", defaultXTTSURL, "Base URL of a running XTTS server; empty spawns a sidecar")
	xttsBin := flag.String("xtts-bin", defaultXTTSBin, "XTTS server binary to spawn when no URL is given")
	maxAttempts := flag.Int("max-attempts", 0, "Attempts per invocation including the first (0=use config/default)")
	disableFallback := flag.Bool("disable-fallback", false, "Fail requests instead of substituting placeholder audio")
	speakTimeoutS := flag.Int64("speak-timeout-s", 0, "Per-request synthesis timeout in seconds (0=off)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated CORS origins (empty disables CORS)")
	logJSON := flag.Bool("log-json", false, "Emit JSON logs instead of console logs")
	flag.Parse()

	var cfg config.Config
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config %s: %v", *configPath, err)
		}
		cfg = c
	}

	// Flags (or their env defaults) win over the config file; the file wins
	// over built-in defaults.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	fromCLI := func(name, env string) bool { return set[name] || os.Getenv(env) != "" }

	if fromCLI("addr", "TTSD_ADDR") || cfg.Addr == "" {
		cfg.Addr = *addr
	}
	if fromCLI("model-dir", "TTSD_MODEL_DIR") || cfg.ModelDir == "" {
		cfg.ModelDir = *modelDir
	}
	if set["reference-wav"] || cfg.ReferenceWav == "" {
		cfg.ReferenceWav = *refWav
	}
	if set["language"] || cfg.Language == "" {
		cfg.Language = *language
	}
	if fromCLI("xtts-url", "TTSD_XTTS_URL") || cfg.XTTSURL == "" {
		cfg.XTTSURL = *xttsURL
	}
	if fromCLI("xtts-bin", "TTSD_XTTS_BIN") || cfg.XTTSBin == "" {
		cfg.XTTSBin = *xttsBin
	}
	if set["max-attempts"] {
		cfg.MaxAttempts = *maxAttempts
	}
	if set["disable-fallback"] {
		cfg.DisableFallback = *disableFallback
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *logJSON {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	httpapi.SetLogger(logger)
	httpapi.SetSpeakTimeoutSeconds(*speakTimeoutS)
	if origins := splitCSV(*corsOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins, nil, nil)
	}

	mgr := manager.NewWithConfig(manager.ManagerConfig{
		ModelDir:      cfg.ModelDir,
		ReferenceWav:  cfg.ReferenceWav,
		Language:      cfg.Language,
		MaxQueueDepth: cfg.MaxQueueDepth,
		MaxWait:       time.Duration(cfg.MaxWaitMS) * time.Millisecond,
		Retry: types.RetryPolicy{
			MaxAttempts:      cfg.MaxAttempts,
			DelayMS:          cfg.RetryDelayMS,
			AttemptTimeoutMS: cfg.AttemptTimeoutMS,
		},
		DisableFallback:  cfg.DisableFallback,
		FallbackDuration: time.Duration(cfg.FallbackDurationMS) * time.Millisecond,
		KeepSilence:      time.Duration(cfg.KeepSilenceMS) * time.Millisecond,
		XTTSURL:          cfg.XTTSURL,
		XTTSBin:          cfg.XTTSBin,
		XTTSHost:         cfg.XTTSHost,
		XTTSPortStart:    cfg.XTTSPortStart,
		XTTSPortEnd:      cfg.XTTSPortEnd,
		XTTSArgs:         cfg.XTTSArgs,
		StartupTimeout:   time.Duration(cfg.StartupMS) * time.Millisecond,
	})
	mgr.SetEventPublisher(httpapi.NewPromPublisher())

	// Cancel in-flight work on shutdown.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	// Load in the background so probes come up immediately; /readyz flips
	// once the backend is ready.
	go func() {
		if err := mgr.Load(baseCtx); err != nil {
			log.Printf("initial load failed: %v", err)
		}
	}()

	mux := httpapi.NewMux(mgr)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Printf("ttsd listening on %s (model dir: %s)", cfg.Addr, cfg.ModelDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
	if err := mgr.Close(); err != nil {
		log.Printf("backend shutdown error: %v", err)
	}
}

// splitCSV splits a comma-separated flag value, trimming whitespace and
// dropping empty items.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
