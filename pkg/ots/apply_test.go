package ots

import (
	"bytes"
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"golang.org/x/crypto/ripemd160"
)

func TestApplyAppend(t *testing.T) {
	got, err := Apply(context.Background(), nil, Append([]byte{0xde, 0xad}), []byte("msg"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.Equal(got, []byte("msg\xde\xad")) {
		t.Errorf("got %x, want %x", got, "msg\xde\xad")
	}
}

func TestApplyPrepend(t *testing.T) {
	got, err := Apply(context.Background(), nil, Prepend([]byte{0xde, 0xad}), []byte("msg"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.Equal(got, []byte("\xde\xadmsg")) {
		t.Errorf("got %x, want %x", got, "\xde\xadmsg")
	}
}

func TestApplyReverse(t *testing.T) {
	got, err := Apply(context.Background(), nil, Reverse(), []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !bytes.Equal(got, []byte{3, 2, 1}) {
		t.Errorf("got %v, want [3 2 1]", got)
	}
}

func TestApplyHexlify(t *testing.T) {
	got, err := Apply(context.Background(), nil, Hexlify(), []byte{0xde, 0xad, 0xbe, 0xef})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if string(got) != "deadbeef" {
		t.Errorf("got %q, want %q", got, "deadbeef")
	}
}

func TestApplySHA256DefaultDigest(t *testing.T) {
	msg := []byte("hello")
	got, err := Apply(context.Background(), nil, HashOp(SHA256), msg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := sha256.Sum256(msg)
	if !bytes.Equal(got, want[:]) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestApplySHA1DefaultDigest(t *testing.T) {
	msg := []byte("hello")
	got, err := Apply(context.Background(), nil, HashOp(SHA1), msg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := sha1.Sum(msg)
	if !bytes.Equal(got, want[:]) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestApplyRIPEMD160DefaultDigest(t *testing.T) {
	msg := []byte("hello")
	got, err := Apply(context.Background(), nil, HashOp(RIPEMD160), msg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	h := ripemd160.New()
	h.Write(msg)
	want := h.Sum(nil)
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestApplyKeccak256IsUnsupported(t *testing.T) {
	_, err := Apply(context.Background(), nil, HashOp(KECCAK256), []byte("hello"))
	if !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("got err=%v, want ErrUnsupportedOperation", err)
	}
}

func TestApplyUnknownTagIsUnsupported(t *testing.T) {
	_, err := Apply(context.Background(), nil, Operation{Tag: OpTag(0xaa)}, []byte("hello"))
	if !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("got err=%v, want ErrUnsupportedOperation", err)
	}
}

type recordingOracle struct {
	calls []HashAlgorithm
}

func (r *recordingOracle) Digest(ctx context.Context, alg HashAlgorithm, data []byte) ([]byte, error) {
	r.calls = append(r.calls, alg)
	sum := sha256.Sum256(append([]byte{byte(alg)}, data...))
	return sum[:], nil
}

func TestApplyUsesOracleWhenConfigured(t *testing.T) {
	oracle := &recordingOracle{}
	got, err := Apply(context.Background(), oracle, HashOp(SHA256), []byte("hello"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(oracle.calls) != 1 || oracle.calls[0] != SHA256 {
		t.Fatalf("oracle.calls = %v, want one SHA256 call", oracle.calls)
	}
	want := sha256.Sum256(append([]byte{byte(SHA256)}, []byte("hello")...))
	if hex.EncodeToString(got) != hex.EncodeToString(want[:]) {
		t.Errorf("Apply did not return the oracle's digest")
	}
}
