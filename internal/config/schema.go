package config

// Config holds triage service configuration.
// Loaded from config.yaml with TRIAGE_-prefixed environment overrides.
type Config struct {
	Server ServerCfg `mapstructure:"server" yaml:"server"`
	Models ModelsCfg `mapstructure:"models" yaml:"models"`
	LLM    LLMCfg    `mapstructure:"llm" yaml:"llm"`
	OCR    OCRCfg    `mapstructure:"ocr" yaml:"ocr"`
	PDF    PDFCfg    `mapstructure:"pdf" yaml:"pdf"`
	Ollama OllamaCfg `mapstructure:"ollama" yaml:"ollama"`
	Log    LogCfg    `mapstructure:"log" yaml:"log"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// ModelsCfg locates the risk model artifacts.
type ModelsCfg struct {
	// Dir holds triage_risk.onnx
	Dir string `mapstructure:"dir" yaml:"dir"`
	// LibraryPath optionally points at the onnxruntime shared library
	LibraryPath string `mapstructure:"library_path" yaml:"library_path"`
}

// LLMCfg configures the secondary-extraction generator.
type LLMCfg struct {
	Backend        string `mapstructure:"backend" yaml:"backend"`                 // "ollama" or "openai"
	OllamaURL      string `mapstructure:"ollama_url" yaml:"ollama_url"`           // base URL, e.g. http://localhost:11434
	Model          string `mapstructure:"model" yaml:"model"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`                 // supports ${ENV_VAR} syntax
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// OCRCfg configures the tesseract engine.
type OCRCfg struct {
	Binary   string `mapstructure:"binary" yaml:"binary"`
	Language string `mapstructure:"language" yaml:"language"`
	Tessdata string `mapstructure:"tessdata" yaml:"tessdata"`
}

// PDFCfg configures the poppler tools for PDF text extraction.
type PDFCfg struct {
	Pdftotext   string `mapstructure:"pdftotext" yaml:"pdftotext"`
	Pdftoppm    string `mapstructure:"pdftoppm" yaml:"pdftoppm"`
	DPI         int    `mapstructure:"dpi" yaml:"dpi"`
	MaxOCRPages int    `mapstructure:"max_ocr_pages" yaml:"max_ocr_pages"`
}

// OllamaCfg holds managed Ollama container configuration. When Managed is
// true the serve command starts a local container and points the LLM
// backend at it.
type OllamaCfg struct {
	Managed       bool   `mapstructure:"managed" yaml:"managed"`
	ContainerName string `mapstructure:"container_name" yaml:"container_name"`
	Image         string `mapstructure:"image" yaml:"image"`
	Port          string `mapstructure:"port" yaml:"port"`
}

// LogCfg configures logging.
type LogCfg struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Models: ModelsCfg{
			Dir: "./models",
		},
		LLM: LLMCfg{
			Backend:        "ollama",
			OllamaURL:      "http://localhost:11434",
			Model:          "llama3.2:3b",
			APIKey:         "${OPENAI_API_KEY}",
			TimeoutSeconds: 20,
		},
		OCR: OCRCfg{
			Binary:   "tesseract",
			Language: "eng",
		},
		PDF: PDFCfg{
			Pdftotext:   "pdftotext",
			Pdftoppm:    "pdftoppm",
			DPI:         300,
			MaxOCRPages: 3,
		},
		Ollama: OllamaCfg{
			Managed:       false,
			ContainerName: "triage-ollama",
			Image:         "ollama/ollama:latest",
			Port:          "11434",
		},
		Log: LogCfg{
			Level: "info",
		},
	}
}

// ListenAddr returns the host:port pair for the HTTP server.
func (c *Config) ListenAddr() string {
	host := c.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.Server.Port
	if port == 0 {
		port = 8000
	}
	return fmtAddr(host, port)
}
