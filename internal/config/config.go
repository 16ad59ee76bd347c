package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAPIURL          = "API_URL"
	EnvMaxLength       = "MAX_LENGTH"
	EnvOllamaURL       = "OLLAMA_URL"
	EnvUpstreamTimeout = "UPSTREAM_TIMEOUT"

	DefaultUpstreamTimeout = 120 * time.Second
)

// Config is the gateway configuration, loaded once at startup.
type Config struct {
	// APIURL is the single origin allowed by the CORS policy.
	APIURL string
	// MaxLength bounds the number of characters in an inbound chat message.
	MaxLength int
	// OllamaURL is the inference server address. It is validated by the
	// upstream client, not here, so a malformed value degrades the service
	// instead of preventing startup.
	OllamaURL       string
	UpstreamTimeout time.Duration

	Dev     bool
	LogPath string
	Addr    string
}

// Load reads the optional env file and then the process environment.
// Variables already present in the environment are never overridden by the file.
func Load(flags Flags) (*Config, error) {
	if flags.EnvFile != "" {
		if err := godotenv.Load(flags.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", flags.EnvFile, err)
		}
	}

	cfg := &Config{
		UpstreamTimeout: DefaultUpstreamTimeout,
		Dev:             flags.Dev,
		LogPath:         flags.LogPath,
		Addr:            flags.Addr,
	}

	var missing []string
	cfg.APIURL = os.Getenv(EnvAPIURL)
	if cfg.APIURL == "" {
		missing = append(missing, EnvAPIURL)
	}
	cfg.OllamaURL = os.Getenv(EnvOllamaURL)
	if cfg.OllamaURL == "" {
		missing = append(missing, EnvOllamaURL)
	}
	rawMax := os.Getenv(EnvMaxLength)
	if rawMax == "" {
		missing = append(missing, EnvMaxLength)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	maxLength, err := strconv.Atoi(strings.TrimSpace(rawMax))
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer: %w", EnvMaxLength, err)
	}
	if maxLength <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", EnvMaxLength, maxLength)
	}
	cfg.MaxLength = maxLength

	if raw := os.Getenv(EnvUpstreamTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be a duration: %w", EnvUpstreamTimeout, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %s", EnvUpstreamTimeout, raw)
		}
		cfg.UpstreamTimeout = timeout
	}

	return cfg, nil
}
