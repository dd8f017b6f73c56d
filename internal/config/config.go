package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"isrc-grabber/internal/constants"
	"isrc-grabber/internal/logger"
)

// Config holds all configuration settings.
type Config struct {
	// MasterKey is the shared secret used to derive per-track decryption keys.
	// Must be ASCII and at least 16 bytes; only the first 16 bytes are used.
	MasterKey string `mapstructure:"master_key"`
	// OutputPath is the directory path where downloaded tracks will be saved.
	OutputPath string `mapstructure:"output_path"`
	// DatabasePath is the path to the SQLite database holding the work queue.
	DatabasePath string `mapstructure:"database_path"`
	// BatchSize is the number of pending tracks fetched from the queue per iteration.
	BatchSize int64 `mapstructure:"batch_size"`
	// MaxConcurrentDownloads bounds how many downloads may hold a rate-limiter
	// slot simultaneously.
	MaxConcurrentDownloads int64 `mapstructure:"max_concurrent_downloads"`
	// MinRequestInterval is the minimum spacing between successive downloads
	// entering their rate-limited section (e.g., "100ms").
	MinRequestInterval string `mapstructure:"min_request_interval"`
	// RequestTimeout is the HTTP client timeout (e.g., "15s").
	RequestTimeout string `mapstructure:"request_timeout"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// RelaxedTLS lowers the TLS cipher/version floor to interoperate with the
	// backend's certificate chain. Certificate verification stays enabled.
	// This is a documented backend-side quirk, not a convenience switch.
	RelaxedTLS bool `mapstructure:"relaxed_tls"`
	// GWBaseURL is the base URL for the internal gateway API (set automatically).
	GWBaseURL string
	// APIBaseURL is the base URL for the public REST API (set automatically).
	APIBaseURL string
	// MediaBaseURL is the base URL for the media URL negotiation API (set automatically).
	MediaBaseURL string
	// ParsedMinRequestInterval is the parsed minimum request spacing.
	ParsedMinRequestInterval time.Duration
	// ParsedRequestTimeout is the parsed HTTP client timeout.
	ParsedRequestTimeout time.Duration
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
}

const (
	// GWBaseURL is the base URL for the internal gateway endpoint.
	GWBaseURL = "https://www.deezer.com"

	// APIBaseURL is the base URL for the public REST API.
	APIBaseURL = "https://api.deezer.com"

	// MediaBaseURL is the base URL for the media URL negotiation endpoint.
	MediaBaseURL = "https://media.deezer.com"

	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".isrc-grabber.yaml"

	// DefaultMaxLogLength is the default maximum size (in bytes) for HTTP dumps in logs.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// DefaultBatchSize is the number of queue items processed per batch.
	DefaultBatchSize = 50

	// DefaultMaxConcurrentDownloads bounds concurrent rate-limited sections.
	DefaultMaxConcurrentDownloads = 30

	// DefaultMinRequestInterval is the minimum spacing between downloads.
	DefaultMinRequestInterval = 100 * time.Millisecond

	// DefaultRequestTimeout is the HTTP client timeout.
	DefaultRequestTimeout = 15 * time.Second

	// masterKeyLength is the number of master key bytes used for key derivation.
	masterKeyLength = 16
)

// Static error definitions for better error handling.
var (
	// ErrEmptyMasterKey indicates that the master key is missing.
	ErrEmptyMasterKey = errors.New("master key cannot be empty")
	// ErrMasterKeyTooShort indicates that the master key is shorter than 16 bytes.
	ErrMasterKeyTooShort = errors.New("master key must be at least 16 bytes")
	// ErrMasterKeyNotASCII indicates that the master key contains non-ASCII bytes.
	ErrMasterKeyNotASCII = errors.New("master key must be ASCII")
	// ErrEmptyOutputPath indicates that the output path is missing.
	ErrEmptyOutputPath = errors.New("output path cannot be empty")
	// ErrEmptyDatabasePath indicates that the database path is missing.
	ErrEmptyDatabasePath = errors.New("database path cannot be empty")
	// ErrInvalidBatchSize indicates that the batch size is invalid.
	ErrInvalidBatchSize = errors.New("batch size must be a positive integer")
	// ErrInvalidConcurrentDownloads indicates that the concurrent downloads count is invalid.
	ErrInvalidConcurrentDownloads = errors.New("max concurrent downloads must be a positive integer")
	// ErrInvalidMinRequestInterval indicates that the minimum request interval is invalid.
	ErrInvalidMinRequestInterval = errors.New("min_request_interval must be positive")
	// ErrInvalidRequestTimeout indicates that the request timeout is invalid.
	ErrInvalidRequestTimeout = errors.New("request_timeout must be positive")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// LoadConfig loads configuration settings from a YAML file.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config from file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateMasterKey checks that the master key is present, long enough for
// key derivation, and ASCII. The trimmed key is written back to the config.
func ValidateMasterKey(cfg *Config) error {
	masterKey := strings.TrimSpace(cfg.MasterKey)
	if masterKey == "" {
		return ErrEmptyMasterKey
	}

	if len(masterKey) < masterKeyLength {
		return fmt.Errorf("%w: got %d", ErrMasterKeyTooShort, len(masterKey))
	}

	for i := range len(masterKey) {
		if masterKey[i] > 0x7F {
			return ErrMasterKeyNotASCII
		}
	}

	cfg.MasterKey = masterKey

	return nil
}

// ValidateConfig checks the configuration for validity, applies defaults for
// optional settings, and sets derived fields.
func ValidateConfig(cfg *Config) error {
	if err := ValidateMasterKey(cfg); err != nil {
		return err
	}

	cfg.GWBaseURL = GWBaseURL
	cfg.APIBaseURL = APIBaseURL
	cfg.MediaBaseURL = MediaBaseURL

	if strings.TrimSpace(cfg.OutputPath) == "" {
		return ErrEmptyOutputPath
	}

	if strings.TrimSpace(cfg.DatabasePath) == "" {
		return ErrEmptyDatabasePath
	}

	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	if cfg.BatchSize < 0 {
		return ErrInvalidBatchSize
	}

	if cfg.MaxConcurrentDownloads == 0 {
		cfg.MaxConcurrentDownloads = DefaultMaxConcurrentDownloads
	}

	if cfg.MaxConcurrentDownloads < 0 {
		return ErrInvalidConcurrentDownloads
	}

	if err := parseDurations(cfg); err != nil {
		return err
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect && strings.TrimSpace(cfg.LogLevel) != "" {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	return nil
}

// parseDurations parses the duration-typed settings, applying defaults for
// unset values.
func parseDurations(cfg *Config) error {
	var err error

	if cfg.MinRequestInterval == "" {
		cfg.ParsedMinRequestInterval = DefaultMinRequestInterval
	} else {
		cfg.ParsedMinRequestInterval, err = time.ParseDuration(cfg.MinRequestInterval)
		if err != nil {
			return fmt.Errorf("failed to parse min request interval: %w", err)
		}

		if cfg.ParsedMinRequestInterval <= 0 {
			return ErrInvalidMinRequestInterval
		}
	}

	if cfg.RequestTimeout == "" {
		cfg.ParsedRequestTimeout = DefaultRequestTimeout
	} else {
		cfg.ParsedRequestTimeout, err = time.ParseDuration(cfg.RequestTimeout)
		if err != nil {
			return fmt.Errorf("failed to parse request timeout: %w", err)
		}

		if cfg.ParsedRequestTimeout <= 0 {
			return ErrInvalidRequestTimeout
		}
	}

	return nil
}

// SaveConfig saves the configuration to the file while preserving the original format and order.
func SaveConfig(cfg *Config) error {
	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile) //nolint:gosec // The path comes from the CLI user.
	if err != nil {
		return handleMissingConfigFile(configFile, cfg.MasterKey, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Update the master_key value in the node tree.
	updateMasterKeyInNode(&node, cfg.MasterKey)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	// Write the file back with preserved order.
	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile, masterKey string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// File doesn't exist, create it with viper.
	viper.Set("master_key", masterKey)

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// updateMasterKeyInNode updates the master_key value in the YAML node tree.
func updateMasterKeyInNode(node *yaml.Node, masterKey string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		if keyNode.Value == "master_key" {
			// Update the value while preserving style.
			valueNode.Value = masterKey

			// Ensure it's quoted if it contains special characters.
			if valueNode.Style == 0 {
				valueNode.Style = yaml.DoubleQuotedStyle
			}

			break
		}
	}
}
