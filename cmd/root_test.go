package cmd

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isrc-grabber/internal/config"
	"isrc-grabber/internal/constants"
)

const testBaseConfigContent = `
master_key: "0123456789abcdef"
output_path: "/config/output"
database_path: "/config/queue.db"
batch_size: 25
max_concurrent_downloads: 10
min_request_interval: "100ms"
request_timeout: "15s"
log_level: "info"
relaxed_tls: true
`

// TestFlagOverrides tests that command-line flags correctly override configuration file values.
//
//nolint:tparallel // Cannot run in parallel due to Viper global state.
func TestFlagOverrides(t *testing.T) {
	tests := []struct {
		name           string
		flags          map[string]any
		expectedConfig func(*testing.T, *config.Config)
	}{
		{
			name:  "no flags - use config values",
			flags: map[string]any{},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/config/output", cfg.OutputPath)
				assert.Equal(t, "/config/queue.db", cfg.DatabasePath)
				assert.Equal(t, int64(25), cfg.BatchSize)
			},
		},
		{
			name: "output flag only - override output path",
			flags: map[string]any{
				"output": "/flag/output",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/flag/output", cfg.OutputPath)
				assert.Equal(t, "/config/queue.db", cfg.DatabasePath)
				assert.Equal(t, int64(25), cfg.BatchSize)
			},
		},
		{
			name: "db flag only - override database path",
			flags: map[string]any{
				"db": "/flag/queue.db",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/config/output", cfg.OutputPath)
				assert.Equal(t, "/flag/queue.db", cfg.DatabasePath)
				assert.Equal(t, int64(25), cfg.BatchSize)
			},
		},
		{
			name: "batch-size flag only - override batch size",
			flags: map[string]any{
				"batch-size": 100,
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/config/output", cfg.OutputPath)
				assert.Equal(t, "/config/queue.db", cfg.DatabasePath)
				assert.Equal(t, int64(100), cfg.BatchSize)
			},
		},
		{
			name: "all flags - override everything",
			flags: map[string]any{
				"output":     "/all/flags/output",
				"db":         "/all/flags/queue.db",
				"batch-size": 5,
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/all/flags/output", cfg.OutputPath)
				assert.Equal(t, "/all/flags/queue.db", cfg.DatabasePath)
				assert.Equal(t, int64(5), cfg.BatchSize)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temporary directory and config file.
			tempDir := t.TempDir()
			configPath := filepath.Join(tempDir, "test-config.yaml")

			err := os.WriteFile(
				configPath,
				[]byte(testBaseConfigContent),
				constants.DefaultFilePermissions,
			)
			require.NoError(t, err)

			// Load configuration.
			cfg, err := config.LoadConfig(configPath)
			require.NoError(t, err)

			// Create a test command with the same flags as the root command.
			testCmd := &cobra.Command{
				Use: "test",
			}

			testCmd.Flags().StringP("output", "o", "", "output directory")
			testCmd.Flags().String("db", "", "queue database path")
			testCmd.Flags().Int64P("batch-size", "b", 0, "batch size")

			// Set flag values.
			for flagName, flagValue := range tt.flags {
				var setErr error

				switch v := flagValue.(type) {
				case int:
					setErr = testCmd.Flags().Set(flagName, strconv.Itoa(v))
				case string:
					setErr = testCmd.Flags().Set(flagName, v)
				}

				require.NoError(t, setErr)
			}

			// Bind flags and validate.
			require.NoError(t, bindFlagsToConfig(testCmd.Flags(), cfg))

			tt.expectedConfig(t, cfg)

			// Derived fields are always set during validation.
			assert.Equal(t, config.GWBaseURL, cfg.GWBaseURL)
			assert.Equal(t, 100*time.Millisecond, cfg.ParsedMinRequestInterval)
			assert.Equal(t, 15*time.Second, cfg.ParsedRequestTimeout)
		})
	}
}

// TestBindFlagsToConfig_InvalidConfig tests that validation failures surface
// through flag binding.
func TestBindFlagsToConfig_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		MasterKey:  "too-short",
		OutputPath: "/output",
	}

	testCmd := &cobra.Command{Use: "test"}

	err := bindFlagsToConfig(testCmd.Flags(), cfg)
	require.ErrorIs(t, err, config.ErrMasterKeyTooShort)
}
