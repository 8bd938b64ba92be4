package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		config  Config
		wantErr bool
	}{
		{
			name: "service account auth",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				ManagementSheetID:  "mgmt-sheet",
				RetryAttempts:      3,
				RetryDelay:         time.Second,
			},
			wantErr: false,
		},
		{
			name: "partial oauth credentials",
			config: Config{
				ClientID:          "test-client",
				ClientSecret:      "", // Missing secret
				RefreshToken:      "test-token",
				ManagementSheetID: "mgmt-sheet",
				RetryAttempts:     3,
				RetryDelay:        time.Second,
			},
			wantErr: true,
			errMsg:  "no authentication method configured",
		},
		{
			name: "both auth methods",
			config: Config{
				ClientID:           "test-client",
				ClientSecret:       "secret",
				RefreshToken:       "test-token",
				ServiceAccountPath: "/path/to/key.json",
				ManagementSheetID:  "mgmt-sheet",
			},
			wantErr: true,
			errMsg:  "multiple authentication methods",
		},
		{
			name: "missing management sheet",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
			},
			wantErr: true,
			errMsg:  "management sheet id is required",
		},
		{
			name: "negative retry delay",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				ManagementSheetID:  "mgmt-sheet",
				RetryAttempts:      3,
				RetryDelay:         -1 * time.Second,
			},
			wantErr: true,
			errMsg:  "retry delay cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfigReadSchedule(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, time.Second, cfg.RetryDelay)
}
