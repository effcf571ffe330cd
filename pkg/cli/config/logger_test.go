package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/bound/pkg/cli/config"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "Valid level: debug", level: "debug"},
		{name: "Valid level: DEBUG (case insensitive)", level: "DEBUG"},
		{name: "Valid level: info", level: "info"},
		{name: "Valid level: Warn", level: "Warn"},
		{name: "Valid level: ERROR", level: "ERROR"},
		{name: "Invalid level: empty string", level: "", wantErr: true},
		{name: "Invalid level: random", level: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &config.Logger{
				Level:  tt.level,
				Format: "text",
				Output: "stderr",
			}

			result, err := logger.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				gt.True(t, goerr.HasTag(err, types.ErrTagConfig))
				return
			}
			gt.NoError(t, err)
			gt.V(t, result).NotNil()
		})
	}
}

func TestLogger_Configure_Format(t *testing.T) {
	for _, format := range []string{"console", "text", "json", "JSON"} {
		t.Run(format, func(t *testing.T) {
			logger := &config.Logger{Level: "info", Format: format, Output: "stderr"}

			result, err := logger.Configure()
			gt.NoError(t, err)
			result.Info("test log message")
		})
	}

	_, err := (&config.Logger{Level: "info", Format: "xml"}).Configure()
	gt.Error(t, err)
}

func TestLogger_Configure_FileOutputRedacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bound.log")
	logger := &config.Logger{Level: "debug", Format: "json", Output: path}

	result, err := logger.Configure()
	gt.NoError(t, err)

	type credential struct {
		User  string
		Token string
	}
	result.Info("configured", "github", credential{User: "octocat", Token: "ghp_secret_value"})
	gt.NoError(t, logger.Close())

	raw, err := os.ReadFile(path)
	gt.NoError(t, err)
	gt.String(t, string(raw)).Contains("octocat")
	gt.String(t, string(raw)).NotContains("ghp_secret_value")
}

func TestLogger_Flags(t *testing.T) {
	logger := &config.Logger{}
	flags := logger.Flags()
	gt.A(t, flags).Length(3)

	flagNames := make(map[string]bool)
	for _, flag := range flags {
		names := flag.Names()
		if len(names) > 0 {
			flagNames[names[0]] = true
		}
	}

	gt.True(t, flagNames["log-level"])
	gt.True(t, flagNames["log-format"])
	gt.True(t, flagNames["log-output"])
}
