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
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync/atomic"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRequestTimeoutSec        = 30
	DefaultDocumentSubmitTimeoutSec = 120
	DefaultAcceptLanguage           = "en"
)

var ConfigStore atomic.Value

// RetryConfig controls the opt-in transport retry. It is disabled by default;
// the SDK itself never retries, callers decide.
type RetryConfig struct {
	MaxRetries       int `json:"max_retries" envconfig:"ONBOARDING_RETRY_MAX"`
	IntervalMillisec int `json:"interval_ms" envconfig:"ONBOARDING_RETRY_INTERVAL_MS"`
}

type Configuration struct {
	// BaseURL is the root of the onboarding backend, e.g. https://api.example.com.
	BaseURL string `json:"base_url" envconfig:"ONBOARDING_BASE_URL"`
	// AcceptLanguage is forwarded on every request so backend texts (consent,
	// error messages) arrive localized.
	AcceptLanguage string `json:"accept_language" envconfig:"ONBOARDING_ACCEPT_LANGUAGE"`
	// RequestTimeoutSec bounds every call except document submission.
	RequestTimeoutSec int `json:"request_timeout_sec" envconfig:"ONBOARDING_REQUEST_TIMEOUT_SEC"`
	// DocumentSubmitTimeoutSec bounds document submission, which uploads
	// bundled images and needs materially more time.
	DocumentSubmitTimeoutSec int         `json:"document_submit_timeout_sec" envconfig:"ONBOARDING_DOCUMENT_SUBMIT_TIMEOUT_SEC"`
	Retry                    RetryConfig `json:"retry"`
	LogLevel                 string      `json:"log_level" envconfig:"ONBOARDING_LOG_LEVEL"`
}

func (c *Configuration) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func (c *Configuration) DocumentSubmitTimeout() time.Duration {
	return time.Duration(c.DocumentSubmitTimeoutSec) * time.Second
}

func (c *Configuration) validateAndAddDefaults() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
	); err != nil {
		return err
	}
	if c.AcceptLanguage == "" {
		c.AcceptLanguage = DefaultAcceptLanguage
	}
	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = DefaultRequestTimeoutSec
	}
	if c.DocumentSubmitTimeoutSec <= 0 {
		c.DocumentSubmitTimeoutSec = DefaultDocumentSubmitTimeoutSec
	}
	if c.Retry.MaxRetries < 0 {
		c.Retry.MaxRetries = 0
	}
	if c.Retry.IntervalMillisec <= 0 {
		c.Retry.IntervalMillisec = 500
	}
	if c.LogLevel != "" {
		level, err := logrus.ParseLevel(c.LogLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
	}
	return nil
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&cnf); err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	if err := envconfig.Process("onboarding", &cnf); err != nil {
		return err
	}

	if err := cnf.validateAndAddDefaults(); err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return nil
}

// InitConfig loads the configuration from the given JSON file, applying
// ONBOARDING_* environment overrides and defaults.
func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

// Fetch returns the loaded configuration.
func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok || c == nil {
		return nil, errors.New("config not loaded. Call InitConfig or MockConfig first")
	}
	return c, nil
}

// MockConfig applies defaults to the given configuration and stores it.
// Intended for tests and for hosts that configure the SDK programmatically.
func MockConfig(mockConfig *Configuration) {
	if err := mockConfig.validateAndAddDefaults(); err != nil {
		log.Printf("mock config: %v", err)
	}
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
