package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/triagekit/triage/internal/config"
	"github.com/triagekit/triage/internal/document"
	"github.com/triagekit/triage/internal/extract"
	"github.com/triagekit/triage/internal/ollama"
	"github.com/triagekit/triage/internal/predictor"
	"github.com/triagekit/triage/internal/providers"
	"github.com/triagekit/triage/internal/server"
	"github.com/triagekit/triage/internal/svcctx"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the triage server",
	Long: `Start the triage HTTP server.

The server loads the risk model, wires the document and field extraction
pipeline, and optionally starts a managed Ollama container for
model-assisted extraction.

Examples:
  triage serve                    # Start on default port 8000
  triage serve --port 3000        # Start on custom port
  triage serve --host 127.0.0.1   # Bind to loopback only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel(cfg.Log.Level),
		}))
		slog.SetDefault(logger)

		// Provider registry: tesseract OCR plus the configured generator.
		registry := providers.NewRegistry()
		registry.SetLogger(logger)

		ocr := providers.NewTesseractOCR(providers.TesseractConfig{
			Binary:      cfg.OCR.Binary,
			Language:    cfg.OCR.Language,
			TessdataDir: cfg.OCR.Tessdata,
		})
		registry.RegisterOCR(providers.TesseractName, ocr)

		registerGenerator(registry, cfg, logger)
		cfgMgr.OnChange(func(c *config.Config) {
			registerGenerator(registry, c, logger)
			logger.Info("LLM provider reloaded from config")
		})
		cfgMgr.WatchConfig()

		docs := document.NewExtractor(document.Config{
			Pdftotext:   cfg.PDF.Pdftotext,
			Pdftoppm:    cfg.PDF.Pdftoppm,
			DPI:         cfg.PDF.DPI,
			MaxOCRPages: cfg.PDF.MaxOCRPages,
		}, ocr, logger)

		pipeline := extract.NewPipeline(providers.DynamicGenerator{Registry: registry}, logger)

		pred := predictor.Open(predictor.Config{
			ModelsDir:   cfg.Models.Dir,
			LibraryPath: cfg.Models.LibraryPath,
		}, logger)

		var ollamaMgr *ollama.DockerManager
		if cfg.Ollama.Managed {
			ollamaMgr, err = ollama.NewDockerManager(ollama.DockerConfig{
				ContainerName: cfg.Ollama.ContainerName,
				Image:         cfg.Ollama.Image,
				HostPort:      cfg.Ollama.Port,
			})
			if err != nil {
				return fmt.Errorf("failed to create ollama manager: %w", err)
			}
		}

		services := &svcctx.Services{
			Registry:  registry,
			Documents: docs,
			Pipeline:  pipeline,
			Predictor: pred,
			Config:    cfgMgr,
			Logger:    logger,
		}

		srv, err := server.New(server.Config{
			Addr:          listenAddr(cmd, cfg),
			Services:      services,
			OllamaManager: ollamaMgr,
			OllamaModel:   cfg.LLM.Model,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

// registerGenerator wires the configured LLM backend into the registry.
// An unknown or empty backend leaves extraction deterministic-only.
func registerGenerator(registry *providers.Registry, cfg *config.Config, logger *slog.Logger) {
	timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second

	switch cfg.LLM.Backend {
	case "ollama":
		gen := providers.NewOllamaClient(providers.OllamaConfig{
			BaseURL: cfg.LLM.OllamaURL,
			Model:   cfg.LLM.Model,
			Timeout: timeout,
		})
		registry.RegisterLLM(providers.OllamaName, gen)
		registry.SetDefaultLLM(providers.OllamaName)
	case "openai":
		gen := providers.NewOpenAIClient(providers.OpenAIConfig{
			APIKey:  config.ResolveEnvVars(cfg.LLM.APIKey),
			Model:   cfg.LLM.Model,
			Timeout: timeout,
		})
		registry.RegisterLLM(providers.OpenAIName, gen)
		registry.SetDefaultLLM(providers.OpenAIName)
	default:
		registry.SetDefaultLLM("")
		logger.Info("no LLM backend configured, extraction is pattern-only",
			"backend", cfg.LLM.Backend)
	}
}

// listenAddr resolves the bind address: explicit flags win over config.
func listenAddr(cmd *cobra.Command, cfg *config.Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port
	if cmd.Flags().Changed("host") {
		host = serveHost
	}
	if cmd.Flags().Changed("port") {
		port = servePort
	}
	if host == "" {
		host = "0.0.0.0"
	}
	if port == 0 {
		port = 8000
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
