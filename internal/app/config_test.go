package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name       string
		debug      bool
		silent     bool
		configPath string
	}{
		{name: "defaults", debug: false, silent: false, configPath: ""},
		{name: "debug enabled", debug: true, silent: false, configPath: ""},
		{name: "silent with custom path", debug: false, silent: true, configPath: "/tmp/contacts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(tt.debug, tt.silent, tt.configPath)

			assert.Equal(t, tt.debug, cfg.Debug)
			assert.Equal(t, tt.silent, cfg.Silent)
			assert.Equal(t, tt.configPath, cfg.ConfigPath)
			assert.False(t, cfg.Interactive)
			assert.Nil(t, cfg.Contacts)
		})
	}
}
