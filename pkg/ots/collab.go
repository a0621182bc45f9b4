package ots

import (
	"context"
	"time"
)

// HashOracle computes digests for the operation engine's hash cases.
// Implementations must support SHA-256, SHA-1, and RIPEMD-160; they may
// reject Keccak-256.
type HashOracle interface {
	Digest(ctx context.Context, alg HashAlgorithm, data []byte) ([]byte, error)
}

// RandomSource supplies cryptographically random bytes, used by Stamper to
// generate the nonce.
type RandomSource interface {
	RandomBytes(n int) ([]byte, error)
}

// BlockInfo is the Bitcoin block metadata the Verifier needs to check a
// Bitcoin attestation.
type BlockInfo struct {
	Height     uint64
	BlockHash  string
	MerkleRoot string // big-endian hex, block-explorer display order
	Timestamp  time.Time
}

// BlockLookup resolves a Bitcoin block height to its header metadata.
type BlockLookup interface {
	Lookup(ctx context.Context, height uint64) (BlockInfo, error)
}

// CalendarClient talks to OpenTimestamps calendar servers on behalf of
// Stamper and Upgrader.
type CalendarClient interface {
	// Submit posts digest to server's /digest endpoint and returns the
	// serialized pending Timestamp body.
	Submit(ctx context.Context, server string, digest []byte) ([]byte, error)

	// Upgrade polls server's /timestamp/{hex digest} endpoint. pending is
	// true on a 404 or empty body; body holds the serialized Timestamp on
	// a non-empty 2xx response.
	Upgrade(ctx context.Context, server string, digest []byte) (body []byte, pending bool, err error)
}

// ReceiptStore optionally persists a local record of issued or upgraded
// proofs. Stamper and Upgrader call it best-effort when configured; its
// errors never abort the calling operation. Upgrader reports them in
// UpgradeResult.Errors; Stamper discards them.
type ReceiptStore interface {
	RecordStamp(digest []byte, servers []string, createdAt time.Time) error
	RecordUpgrade(digest []byte, upgraded, stillPending int, at time.Time) error
}
