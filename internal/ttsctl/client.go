package ttsctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ttsd/pkg/types"
)

// Client is a small HTTP client for the ttsd API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a client for baseURL. A zero timeout disables the
// client-side deadline.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// apiError carries the server's JSON error payload.
type apiError struct {
	status int
	msg    string
}

func (e apiError) Error() string { return fmt.Sprintf("server returned %d: %s", e.status, e.msg) }

// IsAPIError reports the HTTP status carried by err, if any.
func IsAPIError(err error) (int, bool) {
	if ae, ok := err.(apiError); ok {
		return ae.status, true
	}
	return 0, false
}

func decodeError(resp *http.Response) error {
	var payload types.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err == nil && payload.Error != "" {
		return apiError{status: resp.StatusCode, msg: payload.Error}
	}
	return apiError{status: resp.StatusCode, msg: resp.Status}
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.HTTP.Do(req)
}

// Health fetches the detailed health snapshot.
func (c *Client) Health(ctx context.Context) (types.HealthSnapshot, error) {
	var snap types.HealthSnapshot
	err := c.getJSON(ctx, "/health", &snap)
	return snap, err
}

// State fetches only the lifecycle state.
func (c *Client) State(ctx context.Context) (types.ModelState, error) {
	var resp types.StateResponse
	if err := c.getJSON(ctx, "/state", &resp); err != nil {
		return "", err
	}
	return resp.State, nil
}

// Reload asks the server to reload its model.
func (c *Client) Reload(ctx context.Context) (types.ReloadResponse, error) {
	var out types.ReloadResponse
	resp, err := c.postJSON(ctx, "/reload", nil)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return out, decodeError(resp)
	}
	err = json.NewDecoder(resp.Body).Decode(&out)
	return out, err
}

// SpeakResult is one synthesized utterance.
type SpeakResult struct {
	Audio    []byte
	Fallback bool
}

// Speak synthesizes one utterance to WAV bytes.
func (c *Client) Speak(ctx context.Context, req types.SpeakRequest) (SpeakResult, error) {
	var res SpeakResult
	resp, err := c.postJSON(ctx, "/speak", req)
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return res, decodeError(resp)
	}
	res.Fallback = resp.Header.Get("X-TTS-Fallback") == "true"
	res.Audio, err = io.ReadAll(resp.Body)
	return res, err
}

// SynthResult is a sentence-split synthesis packaged as a ZIP.
type SynthResult struct {
	Zip       []byte
	Fallbacks int
}

// Synthesize has the server split text into sentences and returns the ZIP.
func (c *Client) Synthesize(ctx context.Context, req types.SynthesizeRequest) (SynthResult, error) {
	var res SynthResult
	resp, err := c.postJSON(ctx, "/synthesize", req)
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return res, decodeError(resp)
	}
	if n, convErr := strconv.Atoi(resp.Header.Get("X-TTS-Fallback")); convErr == nil {
		res.Fallbacks = n
	}
	res.Zip, err = io.ReadAll(resp.Body)
	return res, err
}

// WaitReady polls /readyz until it returns 200 or the timeout elapses.
func (c *Client) WaitReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/readyz", nil)
		resp, err := c.HTTP.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for %s to become ready", c.BaseURL)
		}
	}
}
