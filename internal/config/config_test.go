package config

import (
	"bytes"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetUninitialized verifies that calling Get() before Load() panics.
func TestGetUninitialized(t *testing.T) {
	instance = nil
	once = sync.Once{}

	assert.Panics(t, func() {
		Get()
	}, "Get() should panic if configuration is not initialized")
}

// TestLoadAndGet verifies the singleton load and get behavior.
func TestLoadAndGet(t *testing.T) {
	instance = nil
	once = sync.Once{}

	yamlConfig := []byte(`
sonar:
  server: "https://sonarcloud.io"
  token: "squ_abc123"
  organization: "my-org"
  project: "my-project"
export:
  concurrency: 8
`)

	v := viper.New()
	v.SetConfigType("yaml")
	err := v.ReadConfig(bytes.NewBuffer(yamlConfig))
	require.NoError(t, err)

	err = Load(v)
	require.NoError(t, err)

	cfg := Get()
	require.NotNil(t, cfg)
	assert.Equal(t, "https://sonarcloud.io", cfg.Sonar.Server)
	assert.Equal(t, "my-org", cfg.Sonar.Organization)
	assert.Equal(t, 8, cfg.Export.Concurrency)

	// Subsequent loads must not replace the instance.
	v2 := viper.New()
	v2.SetConfigType("yaml")
	_ = v2.ReadConfig(bytes.NewBuffer([]byte(`sonar: {server: "https://other"}`)))
	err = Load(v2)
	require.NoError(t, err)

	cfg2 := Get()
	assert.Same(t, cfg, cfg2, "Get() should return the same instance")
	assert.Equal(t, "https://sonarcloud.io", cfg2.Sonar.Server)
}

func validSonarConfig() SonarConfig {
	return SonarConfig{
		Server:       "https://sonarcloud.io",
		Token:        "squ_abc123",
		Organization: "my-org",
		Project:      "my-project",
	}
}

// TestValidate verifies the fixed check order and each failure mode.
func TestValidate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(*SonarConfig)
		wantField string
	}{
		{"valid minimal", func(c *SonarConfig) {}, ""},
		{"valid with filters", func(c *SonarConfig) {
			c.Types = []string{"BUG", "VULNERABILITY"}
			c.Severities = []string{"MAJOR", "BLOCKER"}
			c.CreatedAfter = "2024-06-01"
		}, ""},
		{"missing server", func(c *SonarConfig) { c.Server = "" }, "server"},
		{"blank token", func(c *SonarConfig) { c.Token = "   " }, "token"},
		{"missing organization", func(c *SonarConfig) { c.Organization = "" }, "organization"},
		{"missing project", func(c *SonarConfig) { c.Project = "" }, "project"},
		{"malformed date", func(c *SonarConfig) { c.CreatedAfter = "01/06/2024" }, "created_after"},
		{"unknown type", func(c *SonarConfig) { c.Types = []string{"BUG", "SMELL"} }, "types"},
		{"unknown severity", func(c *SonarConfig) { c.Severities = []string{"HIGH"} }, "severities"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validSonarConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

// TestValidateOrder verifies that the first offending field in check order
// wins when several fields are invalid.
func TestValidateOrder(t *testing.T) {
	cfg := SonarConfig{
		// Everything is wrong; server must be reported first.
		CreatedAfter: "not-a-date",
		Types:        []string{"NOPE"},
	}
	var verr *ValidationError
	require.ErrorAs(t, cfg.Validate(), &verr)
	assert.Equal(t, "server", verr.Field)

	cfg.Server = "https://sonarcloud.io"
	require.ErrorAs(t, cfg.Validate(), &verr)
	assert.Equal(t, "token", verr.Field)

	cfg.Token = "t"
	require.ErrorAs(t, cfg.Validate(), &verr)
	assert.Equal(t, "organization", verr.Field)

	cfg.Organization = "o"
	require.ErrorAs(t, cfg.Validate(), &verr)
	assert.Equal(t, "project", verr.Field)

	cfg.Project = "p"
	require.ErrorAs(t, cfg.Validate(), &verr)
	assert.Equal(t, "created_after", verr.Field)

	cfg.CreatedAfter = "2024-06-01"
	require.ErrorAs(t, cfg.Validate(), &verr)
	assert.Equal(t, "types", verr.Field)
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	assert.Equal(t, "info", v.GetString("logger.level"))
	assert.Equal(t, "https://sonarcloud.io", v.GetString("sonar.server"))
	assert.Equal(t, "json", v.GetString("export.format"))
	assert.Equal(t, 0, v.GetInt("export.concurrency"))
}
