// Package config loads runtime settings from the environment, an optional
// .env file and an optional YAML file of per-pipeline model overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel    = "gemini-2.5-flash"
	DefaultProModel = "gemini-2.5-pro"
	DefaultDBURL    = "careerkit.db"
	DefaultPort     = "8080"
	DefaultProvider = "langchain"
)

// R2Config holds Cloudflare R2 credentials for object-storage inputs.
type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Enabled reports whether every R2 setting is present.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.Bucket != "" && r.AccessKey != "" && r.SecretKey != ""
}

// AgentConfig overrides the model settings of one pipeline step.
type AgentConfig struct {
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature"`
}

type fileConfig struct {
	Agents map[string]AgentConfig `yaml:"agents"`
}

type Config struct {
	GoogleAPIKey string
	TavilyAPIKey string
	SerperAPIKey string

	Provider string
	Model    string
	ProModel string

	DatabaseURL string
	Port        string
	UploadsDir  string
	RabbitMQURL string
	R2          R2Config

	RenderPages bool

	Agents map[string]AgentConfig
}

// Settings is the resolved model name and temperature for one step.
type Settings struct {
	Model       string
	Temperature float64
}

type stepDefault struct {
	pro         bool
	temperature float64
}

// Step names mirror the pipelines; ".summary" style suffixes name the
// second model call of a pipeline that uses two different settings.
var stepDefaults = map[string]stepDefault{
	"certificate.vision":        {temperature: 0},
	"certificate.summary":       {temperature: 0.2},
	"github":                    {temperature: 0},
	"career-roles":              {temperature: 0.4},
	"job-demand":                {temperature: 0.3},
	"personality":               {temperature: 0.7},
	"courses":                   {temperature: 0},
	"portfolio":                 {temperature: 0.7},
	"resume":                    {temperature: 0.2},
	"transcript":                {temperature: 0.2},
	"skill-pathway":             {temperature: 0.3},
	"skill-pathway.explanation": {pro: true, temperature: 0.3},
	"profile":                   {pro: true, temperature: 0},
	"course-plan":               {pro: true, temperature: 0},
}

// Load reads .env (if present), the environment and, when path is non-empty
// or CAREERKIT_CONFIG is set, a YAML override file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv, path)
}

// FromEnv builds a Config from getenv without touching .env files.
func FromEnv(getenv func(string) string, path string) (*Config, error) {
	cfg := &Config{
		GoogleAPIKey: firstNonEmpty(getenv("GOOGLE_API_KEY"), getenv("GEMINI_API_KEY")),
		TavilyAPIKey: getenv("TAVILY_API_KEY"),
		SerperAPIKey: getenv("SERPER_API_KEY"),
		Provider:     strings.ToLower(getOrDefault(getenv, "LLM_PROVIDER", DefaultProvider)),
		Model:        getOrDefault(getenv, "LLM_MODEL", DefaultModel),
		ProModel:     getOrDefault(getenv, "LLM_PRO_MODEL", DefaultProModel),
		DatabaseURL:  getOrDefault(getenv, "DB_URL", DefaultDBURL),
		Port:         getOrDefault(getenv, "PORT", DefaultPort),
		UploadsDir:   getOrDefault(getenv, "UPLOADS_DIR", "uploads"),
		RabbitMQURL:  getenv("RABBITMQ_URL"),
		R2: R2Config{
			AccountID: getenv("R2_ACCOUNT_ID"),
			Bucket:    getenv("R2_BUCKET"),
			AccessKey: getenv("R2_ACCESS_KEY"),
			SecretKey: getenv("R2_SECRET_KEY"),
		},
		RenderPages: parseBool(getenv("SCRAPE_RENDER")),
		Agents:      map[string]AgentConfig{},
	}

	if path == "" {
		path = getenv("CAREERKIT_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	switch cfg.Provider {
	case "langchain", "genai":
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (want langchain or genai)", cfg.Provider)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	for name, ac := range fc.Agents {
		c.Agents[name] = ac
	}
	return nil
}

// Agent resolves the model settings for a pipeline step. Overrides for the
// exact step win, then overrides for the pipeline prefix, then defaults.
func (c *Config) Agent(step string) Settings {
	def, ok := stepDefaults[step]
	if !ok {
		def = stepDefaults[pipelineOf(step)]
	}
	s := Settings{Model: c.Model, Temperature: def.temperature}
	if def.pro {
		s.Model = c.ProModel
	}

	for _, key := range []string{pipelineOf(step), step} {
		ov, ok := c.Agents[key]
		if !ok {
			continue
		}
		if ov.Model != "" {
			s.Model = ov.Model
		}
		if ov.Temperature != nil {
			s.Temperature = *ov.Temperature
		}
	}
	return s
}

// RequireAPIKey returns an error when no model key is configured.
func (c *Config) RequireAPIKey() error {
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY not found in environment variables")
	}
	return nil
}

// RequireTavilyKey returns an error when the certificate search has no key.
func (c *Config) RequireTavilyKey() error {
	if c.TavilyAPIKey == "" {
		return fmt.Errorf("TAVILY_API_KEY not found in environment variables")
	}
	return nil
}

func pipelineOf(step string) string {
	if i := strings.IndexByte(step, '.'); i >= 0 {
		return step[:i]
	}
	return step
}

func getOrDefault(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
