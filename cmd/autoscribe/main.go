// Command autoscribe transcribes every media file in a folder that does
// not yet have a transcript, writing one transcript file per media file.
// With --watch it keeps running and picks up files as they appear.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/echoscribe/echoscribe-backend/internal/batch"
	"github.com/echoscribe/echoscribe-backend/internal/clients/elevenlabs"
	"github.com/echoscribe/echoscribe-backend/internal/fileutil"
	"github.com/echoscribe/echoscribe-backend/internal/keystore"
	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/transcript"
	"github.com/echoscribe/echoscribe-backend/internal/utils"
)

type config struct {
	InputDir     string `yaml:"input_dir"`
	OutputDir    string `yaml:"output_dir"`
	Format       string `yaml:"format"`
	Concurrency  int    `yaml:"concurrency"`
	ModelID      string `yaml:"model_id"`
	LanguageCode string `yaml:"language_code"`
	Diarize      bool   `yaml:"diarize"`
	PollInterval int    `yaml:"poll_interval_seconds"`
}

func defaultConfig(log *logger.Logger) config {
	return config{
		InputDir:     utils.GetEnv("AUTOSCRIBE_INPUT_DIR", "input", log),
		OutputDir:    utils.GetEnv("AUTOSCRIBE_OUTPUT_DIR", "transcripts", log),
		Format:       utils.GetEnv("AUTOSCRIBE_FORMAT", "srt", log),
		Concurrency:  utils.GetEnvAsInt("AUTOSCRIBE_CONCURRENCY", 2, log),
		ModelID:      utils.GetEnv("AUTOSCRIBE_MODEL_ID", elevenlabs.DefaultModelID, log),
		LanguageCode: utils.GetEnv("AUTOSCRIBE_LANGUAGE_CODE", "", log),
		Diarize:      utils.GetEnvAsBool("AUTOSCRIBE_DIARIZE", false, log),
		PollInterval: utils.GetEnvAsInt("AUTOSCRIBE_POLL_INTERVAL", 30, log),
	}
}

func loadConfig(path string, log *logger.Logger) (config, error) {
	cfg := defaultConfig(log)
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		inputDir   = flag.String("input", "", "media folder to scan")
		outputDir  = flag.String("output", "", "folder transcripts are written to")
		format     = flag.String("format", "", "transcript format: json, txt or srt")
		watch      = flag.Bool("watch", false, "keep running and transcribe new files as they appear")
		setKey     = flag.String("set-key", "", "store the provider API key and exit")
	)
	flag.Parse()

	log, err := logger.New(utils.GetEnv("LOG_MODE", "development", nil))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	storePath, err := keystore.DefaultPath()
	if err != nil {
		log.Fatal("Failed to resolve keystore path", "error", err)
	}
	store := keystore.New(storePath)

	if *setKey != "" {
		if err := store.SetAPIKey(*setKey); err != nil {
			log.Fatal("Failed to store API key", "error", err)
		}
		fmt.Println("API key saved.")
		return
	}

	cfg, err := loadConfig(*configPath, log)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if *inputDir != "" {
		cfg.InputDir = *inputDir
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *format != "" {
		cfg.Format = *format
	}

	outFormat, err := transcript.ParseFormat(cfg.Format)
	if err != nil {
		log.Fatal("Invalid format", "format", cfg.Format, "error", err)
	}

	apiKey := resolveAPIKey(store)
	if apiKey == "" {
		log.Fatal("No API key configured. Set ELEVENLABS_API_KEY or run with --set-key.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &runner{
		log:    log,
		cfg:    cfg,
		format: outFormat,
		apiKey: apiKey,
		client: elevenlabs.NewClient(log),
	}

	if err := runner.runOnce(ctx); err != nil {
		log.Error("Batch run finished with errors", "error", err)
		if !*watch {
			os.Exit(1)
		}
	}
	if *watch {
		if err := runner.watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal("Watch loop failed", "error", err)
		}
	}
}

// resolveAPIKey prefers the environment over the keystore so one-off
// runs can override the saved key.
func resolveAPIKey(store *keystore.Store) string {
	if key := os.Getenv("ELEVENLABS_API_KEY"); key != "" {
		return key
	}
	key, ok, err := store.APIKey()
	if err != nil || !ok {
		return ""
	}
	return key
}

type runner struct {
	log    *logger.Logger
	cfg    config
	format transcript.Format
	apiKey string
	client *elevenlabs.Client
}

// runOnce transcribes every pending media file, a bounded number at a
// time. Per-file failures are collected, not fatal.
func (r *runner) runOnce(ctx context.Context) error {
	pending, err := batch.Pending(r.cfg.InputDir, r.cfg.OutputDir)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		r.log.Info("No files waiting for transcription", "input", r.cfg.InputDir)
		return nil
	}
	r.log.Info("Transcribing pending files", "count", len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for _, path := range pending {
		g.Go(func() error {
			return r.transcribeFile(gctx, path)
		})
	}
	return g.Wait()
}

func (r *runner) transcribeFile(ctx context.Context, path string) error {
	name := filepath.Base(path)
	r.log.Info("Transcribing", "file", name)

	media, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer media.Close()

	result, err := r.client.ConvertFile(ctx, r.apiKey, name, media, elevenlabs.ConvertOptions{
		ModelID:               r.cfg.ModelID,
		LanguageCode:          r.cfg.LanguageCode,
		Diarize:               r.cfg.Diarize,
		TimestampsGranularity: "word",
	})
	if err != nil {
		r.log.Error("Transcription failed", "file", name, "error", err)
		return fmt.Errorf("transcribing %s: %w", name, err)
	}

	export := transcript.Export
	if r.cfg.Diarize {
		export = transcript.ExportWithSpeakers
	}
	content, err := export(result, r.format)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	outPath := filepath.Join(r.cfg.OutputDir, transcript.ExportFilename(name, r.format))
	if err := os.WriteFile(outPath, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	r.log.Info("Transcript written", "file", name, "output", outPath)
	return nil
}

// watch reruns the scan when the input folder changes, with a polling
// ticker as a fallback for filesystems fsnotify cannot observe.
func (r *runner) watch(ctx context.Context) error {
	interval := time.Duration(r.cfg.PollInterval) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.log.Warn("fsnotify not available, falling back to polling", "error", err)
		return r.watchWithPolling(ctx, interval)
	}
	defer watcher.Close()
	if err := watcher.Add(r.cfg.InputDir); err != nil {
		r.log.Warn("Failed to watch input folder, falling back to polling", "error", err)
		return r.watchWithPolling(ctx, interval)
	}
	r.log.Info("Watching for new media", "input", r.cfg.InputDir, "poll_interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				r.log.Warn("fsnotify watcher closed, switching to polling")
				return r.watchWithPolling(ctx, interval)
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if !fileutil.IsSupportedMedia(event.Name) {
				continue
			}
			// Give the writer a moment to finish the file.
			time.Sleep(time.Second)
			if err := r.runOnce(ctx); err != nil {
				r.log.Error("Batch run finished with errors", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				r.log.Warn("fsnotify error channel closed, switching to polling")
				return r.watchWithPolling(ctx, interval)
			}
			r.log.Warn("Watcher error", "error", err)
		case <-ticker.C:
			if err := r.runOnce(ctx); err != nil {
				r.log.Error("Batch run finished with errors", "error", err)
			}
		}
	}
}

func (r *runner) watchWithPolling(ctx context.Context, interval time.Duration) error {
	r.log.Info("Watching for new media (polling)", "input", r.cfg.InputDir, "poll_interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.runOnce(ctx); err != nil {
				r.log.Error("Batch run finished with errors", "error", err)
			}
		}
	}
}
