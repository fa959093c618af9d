package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251207-go-pkg-civars/internal/config"
	"github.com/lwmacct/251207-go-pkg-civars/pkg/cfgm"
)

func TestConfig_JobName(t *testing.T) {
	tests := []struct {
		jobType string
		want    string
	}{
		{jobType: "ci-tron-job", want: ".ci-tron-job-v1"},
		{jobType: "ci-tron-b2c-job", want: ".ci-tron-b2c-job-v1"},
		{jobType: "ci-tron-b2c-diskless", want: ".ci-tron-b2c-diskless-v1"},
		{jobType: "something-else", want: ".ci-tron-b2c-job-v1"},
	}

	for _, tt := range tests {
		t.Run(tt.jobType, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.JobType = tt.jobType
			assert.Equal(t, tt.want, cfg.JobName())
		})
	}
}

func TestDefaultConfig_Independent(t *testing.T) {
	a := config.DefaultConfig()
	a.Jobs["x"] = "y"
	a.Export.ShellVars[0] = "CHANGED"

	b := config.DefaultConfig()
	assert.NotContains(t, b.Jobs, "x")
	assert.NotEqual(t, "CHANGED", b.Export.ShellVars[0])
}

func TestLoad_CIEnvironment(t *testing.T) {
	env := map[string]string{
		"JOB_TYPE":                    "ci-tron-job",
		"CI_TRON_JOB_TEMPLATE_URL":    "https://git.example/ci",
		"CI_TRON_JOB_TEMPLATE_COMMIT": "abc123",
		"CI_TRON_USE_LOCAL_DUT_YML":   "1",
		"CIVARS_LOG_LEVEL":            "debug",
	}
	path := filepath.Join(t.TempDir(), "civars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs:\n  custom: .custom-v1\nlog:\n  format: json\n"), 0o600))

	cfg, err := cfgm.Load(config.DefaultConfig(),
		cfgm.WithConfigPaths(path),
		cfgm.WithEnvPrefix(config.EnvPrefix),
		cfgm.WithEnvBindings(config.EnvBindings),
		cfgm.WithLookupEnv(func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, "ci-tron-job", cfg.JobType)
	assert.Equal(t, "https://git.example/ci", cfg.Template.URL)
	assert.Equal(t, "abc123", cfg.Template.Commit)
	assert.True(t, cfg.Template.Local)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ".custom-v1", cfg.Jobs["custom"])
	assert.Equal(t, ".ci-tron-job-v1", cfg.JobName())
}
