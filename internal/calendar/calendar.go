// Package calendar implements pkg/ots.CalendarClient against the HTTP
// protocol OpenTimestamps calendar servers speak: POST /digest to submit,
// GET /timestamp/{hex digest} to poll for an upgrade.
package calendar

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"otsgo/pkg/ots"
)

const acceptHeader = "application/vnd.opentimestamps.v1"

// Client talks to one or more calendar servers over HTTP.
type Client struct {
	HTTPClient     *http.Client
	SubmitTimeout  time.Duration
	UpgradeTimeout time.Duration
	MaxBodyBytes   int64
}

// New returns a Client with sane per-request timeouts and a response-size
// cap, grounded on the same endpoint shapes the teacher's OpenTimestamps
// provider speaks.
func New(submitTimeout, upgradeTimeout time.Duration, maxBodyBytes int64) *Client {
	return &Client{
		HTTPClient:     &http.Client{},
		SubmitTimeout:  submitTimeout,
		UpgradeTimeout: upgradeTimeout,
		MaxBodyBytes:   maxBodyBytes,
	}
}

// Submit implements pkg/ots.CalendarClient: it POSTs digest to server's
// /digest endpoint and returns the server's pending-timestamp body.
func (c *Client) Submit(ctx context.Context, server string, digest []byte) ([]byte, error) {
	if c.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.SubmitTimeout)
		defer cancel()
	}

	url := server + "/digest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(digest))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("calendar %s returned %d: %s", server, resp.StatusCode, body)
	}
	return c.readBody(resp)
}

// Upgrade implements pkg/ots.CalendarClient: it polls server's
// /timestamp/{hex digest} endpoint. A 404 or an empty body means the
// server has no Bitcoin attestation for digest yet.
func (c *Client) Upgrade(ctx context.Context, server string, digest []byte) ([]byte, bool, error) {
	if c.UpgradeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.UpgradeTimeout)
		defer cancel()
	}

	url := server + "/timestamp/" + hex.EncodeToString(digest)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, true, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, false, fmt.Errorf("calendar %s returned %d: %s", server, resp.StatusCode, body)
	}

	body, err := c.readBody(resp)
	if err != nil {
		return nil, false, err
	}
	if len(body) == 0 {
		return nil, true, nil
	}
	return body, false, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return client.Do(req)
}

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = ots.MaxCalendarResponseBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("read calendar response: %w", err)
	}
	return body, nil
}
