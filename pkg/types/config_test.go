package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"sqlite with data dir", Config{Backend: BackendSQLite, DataDir: "/var/lib/census"}, nil},
		{"data dir is resolved later", Config{Backend: BackendSQLite}, nil},
		{"missing backend", Config{DataDir: "/var/lib/census"}, ErrBackendEmpty},
		{"browser storage is not a backend", Config{Backend: "indexeddb"}, ErrBackendUnknown},
		{"backend names are case sensitive", Config{Backend: "SQLite"}, ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
