/*
Copyright 2025 Identio Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"base_url": "https://api.example.com",
		"accept_language": "de",
		"request_timeout_sec": 10,
		"retry": {"max_retries": 2, "interval_ms": 100}
	}`), 0o644))

	require.NoError(t, InitConfig(file))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cnf.BaseURL)
	assert.Equal(t, "de", cnf.AcceptLanguage)
	assert.Equal(t, 10*time.Second, cnf.RequestTimeout())
	assert.Equal(t, 2, cnf.Retry.MaxRetries)
	assert.Equal(t, 100, cnf.Retry.IntervalMillisec)
	// Unset fields fall back to defaults.
	assert.Equal(t, time.Duration(DefaultDocumentSubmitTimeoutSec)*time.Second, cnf.DocumentSubmitTimeout())
}

func TestInitConfigEnvOverride(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"base_url": "https://api.example.com"}`), 0o644))

	t.Setenv("ONBOARDING_BASE_URL", "https://env.example.com")
	t.Setenv("ONBOARDING_REQUEST_TIMEOUT_SEC", "7")

	require.NoError(t, InitConfig(file))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cnf.BaseURL)
	assert.Equal(t, 7, cnf.RequestTimeoutSec)
}

func TestInitConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("ONBOARDING_BASE_URL", "https://env-only.example.com")

	require.NoError(t, InitConfig(filepath.Join(t.TempDir(), "does-not-exist.json")))

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, "https://env-only.example.com", cnf.BaseURL)
}

func TestInitConfigValidation(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0o644))
	assert.Error(t, InitConfig(file), "base url is required")

	require.NoError(t, os.WriteFile(file, []byte(`{"base_url": "not a url"}`), 0o644))
	assert.Error(t, InitConfig(file))

	require.NoError(t, os.WriteFile(file, []byte(`{"base_url": "https://api.example.com", "log_level": "nope"}`), 0o644))
	assert.Error(t, InitConfig(file))
}

func TestMockConfigAppliesDefaults(t *testing.T) {
	MockConfig(&Configuration{BaseURL: "https://mock.example.com"})

	cnf, err := Fetch()
	require.NoError(t, err)
	assert.Equal(t, DefaultAcceptLanguage, cnf.AcceptLanguage)
	assert.Equal(t, DefaultRequestTimeoutSec, cnf.RequestTimeoutSec)
	assert.Equal(t, 500, cnf.Retry.IntervalMillisec)
	assert.Equal(t, 0, cnf.Retry.MaxRetries)
}
