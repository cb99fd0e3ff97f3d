package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the similarity search service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Artifacts  ArtifactsConfig  `yaml:"artifacts"`
	Geodata    GeodataConfig    `yaml:"geodata"`
	Search     SearchConfig     `yaml:"search"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AuthConfig holds API authentication settings. An empty key list disables
// authentication.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ArtifactsConfig locates the per-shard serving artifacts.
type ArtifactsConfig struct {
	Dir       string   `yaml:"dir"`
	Shards    []string `yaml:"shards"` // ordered "<start>_<end>" labels
	CacheSize int      `yaml:"cache_size"`
}

// GeodataConfig locates the airport crosswalk table.
type GeodataConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig holds retrieval and scoring settings.
type SearchConfig struct {
	TopK                 int           `yaml:"top_k"`
	MaxDistanceKm        float64       `yaml:"max_distance_km"`
	MinCompoundScore     float64       `yaml:"min_compound_score"`
	DefaultNameThreshold float64       `yaml:"default_name_threshold"`
	DefaultAgeThreshold  float64       `yaml:"default_age_threshold"`
	Weights              WeightsConfig `yaml:"weights"`
}

// WeightsConfig is the compound-score blend. The seven weights must sum
// to 1; the defaults are the canonical production values.
type WeightsConfig struct {
	Firstname   float64 `yaml:"firstname"`
	Surname     float64 `yaml:"surname"`
	DOB         float64 `yaml:"dob"`
	Age         float64 `yaml:"age"`
	Address     float64 `yaml:"address"`
	Origin      float64 `yaml:"origin"`
	Destination float64 `yaml:"destination"`
}

// Sum returns the total blend weight.
func (w WeightsConfig) Sum() float64 {
	return w.Firstname + w.Surname + w.DOB + w.Age + w.Address + w.Origin + w.Destination
}

// EmbeddingConfig holds the serving-embedding block multipliers.
type EmbeddingConfig struct {
	NumericWeight      float64            `yaml:"numeric_weight"`
	CategoricalWeights map[string]float64 `yaml:"categorical_weights"`
	NameWeight         float64            `yaml:"name_weight"`
	AddressWeight      float64            `yaml:"address_weight"`
}

// ClassifierConfig selects the optional secondary scoring path.
type ClassifierConfig struct {
	Enabled       bool    `yaml:"enabled"`
	ModelPath     string  `yaml:"model_path"`
	MinConfidence float64 `yaml:"min_confidence"`
}

// Load reads, expands, and validates the configuration for an environment.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Artifacts.CacheSize <= 0 {
		c.Artifacts.CacheSize = 2
	}
	if c.Search.TopK <= 0 {
		c.Search.TopK = 5
	}
	if c.Search.MaxDistanceKm <= 0 {
		c.Search.MaxDistanceKm = 20037.5
	}
	if c.Search.DefaultNameThreshold <= 0 {
		c.Search.DefaultNameThreshold = 30
	}
	if c.Search.DefaultAgeThreshold <= 0 {
		c.Search.DefaultAgeThreshold = 20
	}
	if c.Search.Weights == (WeightsConfig{}) {
		c.Search.Weights = WeightsConfig{
			Firstname:   0.35,
			Surname:     0.25,
			DOB:         0.10,
			Age:         0.05,
			Address:     0.10,
			Origin:      0.075,
			Destination: 0.075,
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Artifacts.Dir == "" {
		return fmt.Errorf("artifacts.dir is required")
	}
	if len(c.Artifacts.Shards) == 0 {
		return fmt.Errorf("artifacts.shards is required")
	}
	if c.Geodata.Path == "" {
		return fmt.Errorf("geodata.path is required")
	}
	if sum := c.Search.Weights.Sum(); math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("search.weights must sum to 1.0, got %v", sum)
	}
	if c.Classifier.Enabled && c.Classifier.ModelPath == "" {
		return fmt.Errorf("classifier.model_path is required when classifier.enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
