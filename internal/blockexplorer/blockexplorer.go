// Package blockexplorer implements pkg/ots.BlockLookup against public
// Bitcoin block-explorer REST APIs, trying each configured base URL in
// order until one answers.
package blockexplorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"otsgo/internal/schemavalidation"
	"otsgo/pkg/ots"
)

// Explorer resolves a Bitcoin block height to its header metadata by
// chaining two calls against a block-explorer REST API: /block-height/{h}
// to get the block hash, then /block/{hash} for the header fields.
type Explorer struct {
	BaseURLs []string
	Client   *http.Client
	Timeout  time.Duration
}

// New returns an Explorer trying baseURLs in order, each call bounded by
// timeout.
func New(baseURLs []string, timeout time.Duration) *Explorer {
	return &Explorer{
		BaseURLs: baseURLs,
		Client:   &http.Client{},
		Timeout:  timeout,
	}
}

// Lookup implements pkg/ots.BlockLookup.
func (e *Explorer) Lookup(ctx context.Context, height uint64) (ots.BlockInfo, error) {
	var lastErr error
	for _, base := range e.BaseURLs {
		info, err := e.lookupFrom(ctx, base, height)
		if err == nil {
			return info, nil
		}
		lastErr = fmt.Errorf("%s: %w", base, err)
	}
	return ots.BlockInfo{}, fmt.Errorf("blockexplorer: all explorers failed: %w", lastErr)
}

func (e *Explorer) lookupFrom(ctx context.Context, base string, height uint64) (ots.BlockInfo, error) {
	hashBody, err := e.get(ctx, fmt.Sprintf("%s/block-height/%d", base, height))
	if err != nil {
		return ots.BlockInfo{}, err
	}
	blockHash := string(hashBody)
	hashJSON, err := json.Marshal(blockHash)
	if err != nil {
		return ots.BlockInfo{}, err
	}
	if err := schemavalidation.ValidateBlockHeight(hashJSON); err != nil {
		return ots.BlockInfo{}, err
	}

	blockBody, err := e.get(ctx, fmt.Sprintf("%s/block/%s", base, blockHash))
	if err != nil {
		return ots.BlockInfo{}, err
	}
	if err := schemavalidation.ValidateBlock(blockBody); err != nil {
		return ots.BlockInfo{}, err
	}

	var payload struct {
		ID         string `json:"id"`
		Height     uint64 `json:"height"`
		MerkleRoot string `json:"merkle_root"`
		Timestamp  int64  `json:"timestamp"`
	}
	if err := json.Unmarshal(blockBody, &payload); err != nil {
		return ots.BlockInfo{}, fmt.Errorf("decode block payload: %w", err)
	}

	return ots.BlockInfo{
		Height:     payload.Height,
		BlockHash:  payload.ID,
		MerkleRoot: payload.MerkleRoot,
		Timestamp:  time.Unix(payload.Timestamp, 0).UTC(),
	}, nil
}

func (e *Explorer) get(ctx context.Context, url string) ([]byte, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json,text/plain")

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer returned %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
