package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every tunable of the engine. Values are resolved in
// precedence order: command-line flags, environment (CODEGRAPH_*), an
// optional codegraph.{json,yaml,toml} config file, then the defaults
// below.
type Config struct {
	Provider string `json:"provider" mapstructure:"provider"`
	Model    string `json:"model" mapstructure:"model"`
	APIKey   string `json:"-" mapstructure:"apiKey"`

	Extensions []string `json:"extensions" mapstructure:"extensions"`
	SkipDirs   []string `json:"skipDirs" mapstructure:"skipDirs"`
	OutDir     string   `json:"outDir" mapstructure:"outDir"`

	OracleTimeout  time.Duration `json:"oracleTimeout" mapstructure:"oracleTimeout"`
	RetryAttempts  int           `json:"retryAttempts" mapstructure:"retryAttempts"`
	RetryBaseDelay time.Duration `json:"retryBaseDelay" mapstructure:"retryBaseDelay"`
	RPS            float64       `json:"rps" mapstructure:"rps"`
	Burst          int           `json:"burst" mapstructure:"burst"`

	CacheSize int `json:"cacheSize" mapstructure:"cacheSize"`
	Port      int `json:"port" mapstructure:"port"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Provider:       "gemini",
		Model:          "gemini-2.5-flash",
		Extensions:     []string{".py", ".js", ".java", ".cpp", ".c", ".h"},
		SkipDirs:       []string{".git", ".hg", ".svn", "node_modules", "vendor", "dist", "build", ".next", ".cache"},
		OutDir:         "out",
		OracleTimeout:  60 * time.Second,
		RetryAttempts:  3,
		RetryBaseDelay: time.Second,
		RPS:            2,
		Burst:          4,
		CacheSize:      4096,
		Port:           8080,
	}
}

// Load resolves the configuration. A .env file in the working directory
// is read first so API keys can live there; a missing .env is not an
// error. searchDir is where the optional config file is looked for,
// usually the repository being analyzed or the current directory.
func Load(searchDir string) (*Config, error) {
	_ = godotenv.Load()

	def := Default()

	v := viper.New()
	v.SetDefault("provider", def.Provider)
	v.SetDefault("model", def.Model)
	v.SetDefault("extensions", def.Extensions)
	v.SetDefault("skipDirs", def.SkipDirs)
	v.SetDefault("outDir", def.OutDir)
	v.SetDefault("oracleTimeout", def.OracleTimeout)
	v.SetDefault("retryAttempts", def.RetryAttempts)
	v.SetDefault("retryBaseDelay", def.RetryBaseDelay)
	v.SetDefault("rps", def.RPS)
	v.SetDefault("burst", def.Burst)
	v.SetDefault("cacheSize", def.CacheSize)
	v.SetDefault("port", def.Port)

	v.SetEnvPrefix("CODEGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("codegraph")
	if searchDir != "" {
		v.AddConfigPath(searchDir)
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv(cfg.Provider)
	}
	return &cfg, nil
}

// apiKeyFromEnv falls back to the provider-native variable names so
// existing credentials work without a CODEGRAPH_ prefix.
func apiKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "groq":
		return envFirst("GROQ_API_KEY")
	default:
		return envFirst("GEMINI_API_KEY", "GOOGLE_API_KEY")
	}
}

func envFirst(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Provider != "gemini" && c.Provider != "groq" && c.Provider != "fake" {
		return &Error{Field: "provider", Message: "must be gemini, groq or fake"}
	}
	if len(c.Extensions) == 0 {
		return &Error{Field: "extensions", Message: "at least one extension is required"}
	}
	if c.OracleTimeout <= 0 {
		return &Error{Field: "oracleTimeout", Message: "must be positive"}
	}
	if c.RetryAttempts < 1 {
		return &Error{Field: "retryAttempts", Message: "must be at least 1"}
	}
	if c.CacheSize < 1 {
		return &Error{Field: "cacheSize", Message: "must be at least 1"}
	}
	return nil
}

// Error reports which field of the configuration is invalid.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
