// Package config loads the scorer weights and runtime settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"legacy-modernizer/internal/model"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "config.yaml"

// WeightsPath is the key path holding the five scorer weights.
const WeightsPath = "parser.weights"

// ErrMissingWeight is returned when a scorer weight is absent or not numeric.
var ErrMissingWeight = errors.New("config: missing or invalid scorer weight")

type Config struct {
	Weights   model.Weights
	Generator GeneratorConfig
	Server    ServerConfig
	Storage   StorageConfig
}

type GeneratorConfig struct {
	Provider    string // gemini or mock
	Model       string
	APIKey      string
	Temperature float64
	MaxRetries  int
	CacheSize   int
}

type ServerConfig struct {
	Addr           string
	MaxUploadBytes int64
}

type StorageConfig struct {
	HistoryPath string
	OutputDir   string
	S3          S3Config
}

type S3Config struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var defaults = map[string]interface{}{
	"generator.provider":      "gemini",
	"generator.model":         "gemini-2.0-flash",
	"generator.temperature":   0.2,
	"generator.max_retries":   3,
	"generator.cache_size":    128,
	"server.addr":             ":8000",
	"server.max_upload_bytes": 1 << 20,
	"storage.history_path":    "modernizer.db",
	"storage.output_dir":      "data/expected_output",
	"storage.s3.region":       "us-east-1",
	"storage.s3.bucket":       "modernizer-artifacts",
	"storage.s3.use_ssl":      true,
}

var weightKeys = []struct {
	key string
	set func(w *model.Weights, v float64)
}{
	{"line_weight", func(w *model.Weights, v float64) { w.LineWeight = v }},
	{"var_weight", func(w *model.Weights, v float64) { w.VarWeight = v }},
	{"sql_weight", func(w *model.Weights, v float64) { w.SQLWeight = v }},
	{"call_weight", func(w *model.Weights, v float64) { w.CallWeight = v }},
	{"logic_weight", func(w *model.Weights, v float64) { w.LogicWeight = v }},
}

// Load reads the YAML file at path on top of the built-in defaults.
// Secrets come from the environment, optionally seeded from a .env file.
// Any missing weight is fatal: no partial configuration is returned.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	weights, err := loadWeights(k)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Weights: weights,
		Generator: GeneratorConfig{
			Provider:    strings.ToLower(strings.TrimSpace(k.String("generator.provider"))),
			Model:       k.String("generator.model"),
			APIKey:      firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
			Temperature: k.Float64("generator.temperature"),
			MaxRetries:  k.Int("generator.max_retries"),
			CacheSize:   k.Int("generator.cache_size"),
		},
		Server: ServerConfig{
			Addr:           k.String("server.addr"),
			MaxUploadBytes: k.Int64("server.max_upload_bytes"),
		},
		Storage: StorageConfig{
			HistoryPath: k.String("storage.history_path"),
			OutputDir:   k.String("storage.output_dir"),
			S3:          loadS3Config(k),
		},
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Addr = port
	}

	return cfg, nil
}

func loadWeights(k *koanf.Koanf) (model.Weights, error) {
	var w model.Weights
	for _, wk := range weightKeys {
		key := WeightsPath + "." + wk.key
		v, ok := number(k.Get(key))
		if !ok {
			return model.Weights{}, fmt.Errorf("%w: %s", ErrMissingWeight, key)
		}
		wk.set(&w, v)
	}
	return w, nil
}

func number(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func loadS3Config(k *koanf.Koanf) S3Config {
	cfg := S3Config{
		Endpoint:  firstNonEmpty(os.Getenv("ARTIFACT_S3_ENDPOINT"), k.String("storage.s3.endpoint")),
		Region:    firstNonEmpty(os.Getenv("ARTIFACT_S3_REGION"), k.String("storage.s3.region")),
		AccessKey: strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")),
		Bucket:    firstNonEmpty(os.Getenv("ARTIFACT_S3_BUCKET"), k.String("storage.s3.bucket")),
		UseSSL:    k.Bool("storage.s3.use_ssl"),
	}
	if raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.UseSSL = v
		}
	}
	cfg.Enabled = cfg.Endpoint != ""
	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
