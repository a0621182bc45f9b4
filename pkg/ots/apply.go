package ots

import (
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/ripemd160"
)

// Apply runs op against msg using oracle for the hash cases, returning a
// freshly allocated buffer. It never mutates msg. A nil oracle falls back
// to the standard-library and golang.org/x/crypto implementations of
// SHA-256, SHA-1, and RIPEMD-160.
func Apply(ctx context.Context, oracle HashOracle, op Operation, msg []byte) ([]byte, error) {
	switch op.Tag {
	case OpAppend:
		out := make([]byte, 0, len(msg)+len(op.Arg))
		out = append(out, msg...)
		out = append(out, op.Arg...)
		return out, nil
	case OpPrepend:
		out := make([]byte, 0, len(msg)+len(op.Arg))
		out = append(out, op.Arg...)
		out = append(out, msg...)
		return out, nil
	case OpReverse:
		out := make([]byte, len(msg))
		for i, b := range msg {
			out[len(msg)-1-i] = b
		}
		return out, nil
	case OpHexlify:
		return []byte(hex.EncodeToString(msg)), nil
	case OpSHA256, OpSHA1, OpRIPEMD160:
		alg := HashAlgorithm(op.Tag)
		if oracle != nil {
			return oracle.Digest(ctx, alg, msg)
		}
		return defaultDigest(alg, msg)
	case OpKeccak256:
		return nil, fmt.Errorf("%w: keccak256", ErrUnsupportedOperation)
	default:
		return nil, fmt.Errorf("%w: tag 0x%02x", ErrUnsupportedOperation, byte(op.Tag))
	}
}

// defaultDigest implements the HashOracle contract for SHA-256, SHA-1, and
// RIPEMD-160 used when the caller supplies no oracle of its own.
func defaultDigest(alg HashAlgorithm, msg []byte) ([]byte, error) {
	switch alg {
	case SHA256:
		sum := sha256.Sum256(msg)
		return sum[:], nil
	case SHA1:
		sum := sha1.Sum(msg)
		return sum[:], nil
	case RIPEMD160:
		h := ripemd160.New()
		if _, err := h.Write(msg); err != nil {
			return nil, err
		}
		return h.Sum(nil), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, alg)
	}
}
