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

package request

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/identio/onboarding-go/config"
	"github.com/identio/onboarding-go/internal/sdkerror"
)

// AuthTier names the authentication/encryption treatment an endpoint requires.
// The tiers themselves are opaque to this SDK; the injected Authority applies
// whatever signing and envelope scheme the credential layer implements.
type AuthTier string

const (
	TierAppScopeEncrypted           AuthTier = "app-scope-encrypted"
	TierTokenSigned                 AuthTier = "token-signed"
	TierPossessionSigned            AuthTier = "possession-signed"
	TierPossessionSignedEncrypted   AuthTier = "possession-signed-encrypted"
	TierTokenSignedActivationScoped AuthTier = "token-signed-activation-encrypted"
	TierActivationScopeEncrypted    AuthTier = "activation-scope-encrypted"
)

// Authority applies request signing and encryption for a tier. Implemented by
// the external credential/transport layer.
type Authority interface {
	Apply(req *http.Request, tier AuthTier) error
}

// NoopAuthority applies nothing. Useful in tests and against mock backends.
type NoopAuthority struct{}

func (NoopAuthority) Apply(*http.Request, AuthTier) error { return nil }

// Endpoint describes one backend call: method, path, auth tier and an optional
// timeout override for calls that need more than the configured default.
type Endpoint struct {
	Method  string
	Path    string
	Tier    AuthTier
	Timeout time.Duration
}

// errorEnvelope is the backend's JSON error shape.
type errorEnvelope struct {
	Status         string `json:"status"`
	ResponseObject struct {
		Code              string `json:"code"`
		Message           string `json:"message"`
		RemainingAttempts *int   `json:"remainingAttempts,omitempty"`
	} `json:"responseObject"`
}

// Client executes endpoint calls with JSON bodies against the backend.
type Client struct {
	baseURL        string
	acceptLanguage string
	httpClient     *http.Client
	authority      Authority
	maxRetries     int
	retryInterval  time.Duration
}

// NewClient builds a client from the loaded configuration.
func NewClient(cfg *config.Configuration, authority Authority) *Client {
	if authority == nil {
		authority = NoopAuthority{}
	}
	return &Client{
		baseURL:        cfg.BaseURL,
		acceptLanguage: cfg.AcceptLanguage,
		httpClient:     &http.Client{Timeout: cfg.RequestTimeout()},
		authority:      authority,
		maxRetries:     cfg.Retry.MaxRetries,
		retryInterval:  time.Duration(cfg.Retry.IntervalMillisec) * time.Millisecond,
	}
}

// ToJSONReq converts a payload to a JSON-encoded request body.
func ToJSONReq(payload interface{}) (*bytes.Buffer, error) {
	c, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return bytes.NewBuffer(c), nil
}

// Call executes the endpoint, encoding body as JSON and decoding the response
// into out (which may be nil for calls without a response payload). Backend
// error envelopes become sdkerror values; connectivity failures are retried
// only when the configured retry policy enables it, never backend responses.
func (c *Client) Call(ctx context.Context, ep Endpoint, body, out interface{}) error {
	var attempt int
	operation := func() error {
		attempt++
		err := c.callOnce(ctx, ep, body, out)
		if err == nil {
			return nil
		}
		if sdkerror.IsConnectivity(err) && ctx.Err() == nil {
			logrus.Debugf("call %s attempt %d failed: %v", ep.Path, attempt, err)
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewConstantBackOff(c.retryInterval), uint64(c.maxRetries)), ctx)
	return backoff.Retry(operation, policy)
}

func (c *Client) callOnce(ctx context.Context, ep Endpoint, body, out interface{}) error {
	if ep.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ep.Timeout)
		defer cancel()
	}

	var payload io.Reader
	if body != nil {
		buf, err := ToJSONReq(body)
		if err != nil {
			return errors.Wrapf(err, "encoding request for %s", ep.Path)
		}
		payload = buf
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, c.baseURL+ep.Path, payload)
	if err != nil {
		return errors.Wrapf(err, "building request for %s", ep.Path)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.acceptLanguage != "" {
		req.Header.Set("Accept-Language", c.acceptLanguage)
	}
	if err := c.authority.Apply(req, ep.Tier); err != nil {
		return errors.Wrapf(err, "authorizing request for %s", ep.Path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.decodeError(resp, ep)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding response of %s", ep.Path)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response, ep Endpoint) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var envelope errorEnvelope
	_ = json.Unmarshal(raw, &envelope)

	message := envelope.ResponseObject.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	code := sdkerror.ErrRemote
	if resp.StatusCode == http.StatusTooManyRequests || envelope.ResponseObject.Code == "TOO_MANY_REQUESTS" {
		code = sdkerror.ErrRateLimited
	}

	return &sdkerror.Error{
		Code:              code,
		Message:           message,
		Err:               errors.Errorf("%s %s returned %d", ep.Method, ep.Path, resp.StatusCode),
		RemainingAttempts: envelope.ResponseObject.RemainingAttempts,
	}
}
