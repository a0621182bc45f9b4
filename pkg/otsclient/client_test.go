package otsclient

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"otsgo/internal/config"
	"otsgo/pkg/ots"
)

func TestNewWiresDefaultCollaborators(t *testing.T) {
	cfg := config.DefaultConfig()
	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Verifier.Blocks)
	require.NotNil(t, c.Upgrader.Calendar)
	require.NotNil(t, c.Stamper.Calendar)
	require.Equal(t, cfg.Calendars.Servers, c.Stamper.Servers)
	require.Nil(t, c.Upgrader.Store, "receipts disabled by default, Store should be nil")
}

func TestNewOpensReceiptsStoreWhenEnabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Receipts.Enabled = true
	cfg.Receipts.Path = filepath.Join(t.TempDir(), "receipts.db")

	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Upgrader.Store)
	require.NotNil(t, c.Stamper.Store)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Calendars.Servers = []string{"not-a-url"}
	_, err := New(cfg)
	require.Error(t, err)
}

func TestNewThreadsConfiguredLimitsIntoVerifierAndUpgrader(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Limits.MaxDepth = 3
	cfg.Limits.MaxVarbytes = 8

	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, 3, c.Verifier.Limits.MaxDepth)
	require.Equal(t, 3, c.Upgrader.Limits.MaxDepth)
	require.Equal(t, int64(8), c.Limits.MaxVarbytes)
}

func TestClientWriteRejectsProofsDeeperThanConfiguredLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Limits.MaxDepth = 2

	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	deep := &ots.Timestamp{Attestations: []ots.Attestation{ots.BitcoinAttestation{Height: 1}}}
	for i := 0; i < 5; i++ {
		deep = &ots.Timestamp{Ops: []ots.OpBranch{{Op: ots.Reverse(), Sub: deep}}}
	}
	file := &ots.OtsFile{HashOp: ots.SHA256, FileDigest: bytes.Repeat([]byte{0xab}, 32), Timestamp: deep}

	var buf bytes.Buffer
	err = c.Write(&buf, file)
	require.Error(t, err)
	require.True(t, errors.Is(err, ots.ErrDepthExceeded))
}
