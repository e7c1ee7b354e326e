package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigService(t.TempDir())

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, Validate(cfg))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	svc := NewConfigService(dir)

	cfg := DefaultConfig()
	cfg.Fields[0].Value = "apple"
	cfg.Fields[0].DisplayValue = "Apple"
	require.NoError(t, svc.Save(cfg))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "[[fields]]")

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.toml")
	content := `version = 1
base_url = "http://localhost:9000"

[ui]
title = "Shipping"

[[fields]]
name = "country"
endpoint = "/autocomplete/countries/"
value_field = "code"
label_field = "name"
aria_describedby = "country-help"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfigService(t.TempDir()).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, "Shipping", cfg.UISettings.Title)
	// unset ui keys keep their defaults
	assert.Equal(t, 40, cfg.UISettings.Width)
	require.Len(t, cfg.Fields, 1)

	attrs := cfg.Fields[0].Attributes()
	assert.Equal(t, map[string]string{
		"name":             "country",
		"endpoint":         "/autocomplete/countries/",
		"data-value-field": "code",
		"data-label-field": "name",
		"aria-describedby": "country-help",
	}, attrs)
}

func TestLoadFromPathErrors(t *testing.T) {
	svc := NewConfigService(t.TempDir())

	_, err := svc.LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "config file not found")

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("version = ["), 0644))
	_, err = svc.LoadFromPath(bad)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := &Config{
		Version: 2,
		BaseURL: "not a url",
		Fields: []Field{
			{Name: "fruit", Endpoint: "/a/"},
			{Name: "fruit", Endpoint: "/b/"},
			{Endpoint: "/c/"},
			{Name: "city"},
		},
	}

	err := Validate(cfg)
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 5)
	assert.ErrorContains(t, err, "unsupported version 2")
	assert.ErrorContains(t, err, "is not an absolute URL")
	assert.ErrorContains(t, err, `duplicate name "fruit"`)
	assert.ErrorContains(t, err, "field 2: missing name")
	assert.ErrorContains(t, err, "field 3 (city): missing endpoint")
}

func TestValidateRequiresFields(t *testing.T) {
	err := Validate(&Config{Version: 1})
	assert.ErrorContains(t, err, "no fields configured")
}
