package ots

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"otsgo/internal/otsbin"
)

// VerifyKind discriminates the per-attestation outcomes a Verify call can
// produce.
type VerifyKind int

const (
	VerifyVerified VerifyKind = iota
	VerifyFailed
	VerifyPending
	VerifySkipped
	VerifyError
)

func (k VerifyKind) String() string {
	switch k {
	case VerifyVerified:
		return "verified"
	case VerifyFailed:
		return "failed"
	case VerifyPending:
		return "pending"
	case VerifySkipped:
		return "skipped"
	case VerifyError:
		return "error"
	default:
		return "unknown"
	}
}

// VerifyEntry is the outcome of replaying one attestation on one proof
// path. Verify never short-circuits: every path produces exactly one
// entry, even when it errors.
type VerifyEntry struct {
	Kind      VerifyKind
	Height    uint64
	BlockHash string
	BlockTime time.Time
	Expected  []byte
	Got       []byte
	URI       string
	Reason    string
	Message   string
}

// Verifier replays a proof tree's operations and checks Bitcoin
// attestations against a block-lookup collaborator.
type Verifier struct {
	Oracle HashOracle
	Blocks BlockLookup
	Limits Limits
}

// VerifyInput carries the original data or a pre-computed digest against
// which the file's claimed digest is checked. Data takes precedence when
// both are set; when neither is set the digest check is skipped.
type VerifyInput struct {
	Data   []byte
	Digest []byte
}

// Verify parses nothing itself: file must already be a parsed proof. It
// checks the integrity of file.FileDigest against input (a top-level,
// fatal check), then walks the tree depth-first, attestations before
// continuations, producing one VerifyEntry per path.
func (v *Verifier) Verify(ctx context.Context, file *OtsFile, input VerifyInput) ([]VerifyEntry, error) {
	if err := v.checkDigest(ctx, file, input); err != nil {
		return nil, err
	}
	var out []VerifyEntry
	v.walk(ctx, file.Timestamp, file.FileDigest, 1, &out)
	return out, nil
}

func (v *Verifier) checkDigest(ctx context.Context, file *OtsFile, input VerifyInput) error {
	var want []byte
	switch {
	case input.Data != nil:
		d, err := v.digest(ctx, file.HashOp, input.Data)
		if err != nil {
			return err
		}
		want = d
	case input.Digest != nil:
		want = input.Digest
	default:
		return nil // caller supplied neither; trust the file's own digest.
	}
	if !otsbin.Equal(want, file.FileDigest) {
		return ErrDigestMismatch
	}
	return nil
}

func (v *Verifier) digest(ctx context.Context, alg HashAlgorithm, data []byte) ([]byte, error) {
	return Apply(ctx, v.Oracle, HashOp(alg), data)
}

func (v *Verifier) walk(ctx context.Context, ts *Timestamp, msg []byte, depth int, out *[]VerifyEntry) {
	if depth > v.Limits.maxDepth() {
		*out = append(*out, VerifyEntry{Kind: VerifyError, Message: ErrDepthExceeded.Error()})
		return
	}
	for _, a := range ts.Attestations {
		v.verifyAttestation(ctx, a, msg, out)
	}
	for _, ob := range ts.Ops {
		child, err := Apply(ctx, v.Oracle, ob.Op, msg)
		if err != nil {
			*out = append(*out, VerifyEntry{Kind: VerifyError, Message: err.Error()})
			continue
		}
		v.walk(ctx, ob.Sub, child, depth+1, out)
	}
}

func (v *Verifier) verifyAttestation(ctx context.Context, a Attestation, msg []byte, out *[]VerifyEntry) {
	switch att := a.(type) {
	case BitcoinAttestation:
		v.verifyBitcoin(ctx, att, msg, out)
	case LitecoinAttestation:
		*out = append(*out, VerifyEntry{Kind: VerifySkipped, Height: att.Height, Reason: "litecoin attestations are recognized but not verified"})
	case EthereumAttestation:
		*out = append(*out, VerifyEntry{Kind: VerifySkipped, Height: att.Height, Reason: "ethereum attestations are recognized but not verified"})
	case PendingAttestation:
		*out = append(*out, VerifyEntry{Kind: VerifyPending, URI: att.URI})
	case UnknownAttestation:
		*out = append(*out, VerifyEntry{Kind: VerifySkipped, Reason: fmt.Sprintf("unknown attestation tag %x", att.Tag)})
	}
}

func (v *Verifier) verifyBitcoin(ctx context.Context, att BitcoinAttestation, msg []byte, out *[]VerifyEntry) {
	if v.Blocks == nil {
		*out = append(*out, VerifyEntry{Kind: VerifyError, Height: att.Height, Message: "verify: no block lookup configured"})
		return
	}
	info, err := v.Blocks.Lookup(ctx, att.Height)
	if err != nil {
		*out = append(*out, VerifyEntry{Kind: VerifyError, Height: att.Height, Message: err.Error()})
		return
	}
	rootBE, err := hex.DecodeString(info.MerkleRoot)
	if err != nil {
		*out = append(*out, VerifyEntry{Kind: VerifyError, Height: att.Height, Message: "verify: invalid merkle root hex: " + err.Error()})
		return
	}
	expected := reversed(rootBE)
	if otsbin.Equal(msg, expected) {
		*out = append(*out, VerifyEntry{
			Kind:      VerifyVerified,
			Height:    att.Height,
			BlockHash: info.BlockHash,
			BlockTime: info.Timestamp,
		})
		return
	}
	*out = append(*out, VerifyEntry{
		Kind:     VerifyFailed,
		Height:   att.Height,
		Expected: expected,
		Got:      append([]byte{}, msg...),
	})
}

// reversed returns a new slice with b's bytes in reverse order, converting
// the block explorer's big-endian merkle root display form into the
// little-endian form the proof chain produces.
func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
