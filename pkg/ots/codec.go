package ots

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"otsgo/internal/otsbin"
)

// Magic is the exact 31-byte header every .ots file begins with.
var Magic = []byte{
	0x00, 'O', 'p', 'e', 'n', 'T', 'i', 'm', 'e', 's', 't', 'a', 'm', 'p', 's', 0x00,
	0x00, 'P', 'r', 'o', 'o', 'f', 0x00,
	0xbf, 0x89, 0xe2, 0xe8, 0x84, 0xe8, 0x92, 0x94,
}

// Version is the only OTS format version this codec understands.
const Version = 1

// reader walks an in-memory byte slice, tracking position and producing
// codec errors on truncation or oversized fields.
type reader struct {
	data   []byte
	pos    int
	limits Limits
}

func (r *reader) peekByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	return r.data[r.pos], nil
}

func (r *reader) readByte() (byte, error) {
	b, err := r.peekByte()
	if err != nil {
		return 0, err
	}
	r.pos++
	return b, nil
}

func (r *reader) readN(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrUnexpectedEOF
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

func (r *reader) readVaruint() (uint64, error) {
	v, n, err := otsbin.ReadVaruint(bytes.NewReader(r.data[r.pos:]))
	r.pos += n
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrUnexpectedEOF
		}
		if errors.Is(err, otsbin.ErrOverflow) {
			return 0, ErrVaruintOverflow
		}
		return 0, err
	}
	return v, nil
}

func (r *reader) readVarbytes() ([]byte, error) {
	n, err := r.readVaruint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.limits.maxVarbytes()) {
		return nil, fmt.Errorf("%w: %d bytes", ErrVarbytesTooLarge, n)
	}
	return r.readN(int(n))
}

// Parse decodes a complete .ots file, enforcing the default Limits.
func Parse(data []byte) (*OtsFile, error) {
	return ParseWithLimits(data, Limits{})
}

// ParseWithLimits decodes a complete .ots file, enforcing limits instead
// of the package defaults.
func ParseWithLimits(data []byte, limits Limits) (*OtsFile, error) {
	r := &reader{data: data, limits: limits}

	magic, err := r.readN(len(Magic))
	if err != nil || !bytes.Equal(magic, Magic) {
		return nil, ErrBadMagic
	}

	version, err := r.readVaruint()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	hashTag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	hashOp := HashAlgorithm(hashTag)
	if !hashOp.Known() {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownHashTag, hashTag)
	}

	digest, err := r.readN(hashOp.DigestLen())
	if err != nil {
		return nil, err
	}

	ts, err := parseTimestamp(r, 1)
	if err != nil {
		return nil, err
	}

	return &OtsFile{HashOp: hashOp, FileDigest: digest, Timestamp: ts}, nil
}

// ParseTimestamp decodes a standalone Timestamp using the same grammar as
// a Timestamp at any internal node — the shape a calendar server's
// response body takes. It enforces the default Limits.
func ParseTimestamp(data []byte) (*Timestamp, error) {
	return ParseTimestampWithLimits(data, Limits{})
}

// ParseTimestampWithLimits decodes a standalone Timestamp, enforcing
// limits instead of the package defaults.
func ParseTimestampWithLimits(data []byte, limits Limits) (*Timestamp, error) {
	r := &reader{data: data, limits: limits}
	return parseTimestamp(r, 1)
}

// parseTimestamp implements the Fork-branch grammar of §4.1: consume
// leading 0xFF markers one at a time, parsing one branch per marker, then
// parse a final branch with no preceding marker.
func parseTimestamp(r *reader, depth int) (*Timestamp, error) {
	if depth > r.limits.maxDepth() {
		return nil, ErrDepthExceeded
	}
	ts := &Timestamp{}
	for {
		b, err := r.peekByte()
		if err != nil {
			return nil, err
		}
		hasMarker := b == 0xFF
		if hasMarker {
			r.pos++
		}

		branchTag, err := r.peekByte()
		if err != nil {
			return nil, err
		}
		if branchTag == 0x00 {
			att, err := parseAttestation(r)
			if err != nil {
				return nil, err
			}
			ts.Attestations = append(ts.Attestations, att)
		} else {
			op, sub, err := parseContinuation(r, depth)
			if err != nil {
				return nil, err
			}
			ts.Ops = append(ts.Ops, OpBranch{Op: op, Sub: sub})
		}

		if !hasMarker {
			break
		}
	}
	if ts.BranchCount() == 0 {
		return nil, ErrEmptyTimestamp
	}
	return ts, nil
}

func parseAttestation(r *reader) (Attestation, error) {
	if _, err := r.readByte(); err != nil { // the 0x00 discriminator
		return nil, err
	}
	tagBytes, err := r.readN(8)
	if err != nil {
		return nil, err
	}
	var tag [8]byte
	copy(tag[:], tagBytes)

	payload, err := r.readVarbytes()
	if err != nil {
		return nil, err
	}

	switch tag {
	case tagBitcoin:
		h, err := readHeight(payload)
		if err != nil {
			return nil, err
		}
		return BitcoinAttestation{Height: h}, nil
	case tagLitecoin:
		h, err := readHeight(payload)
		if err != nil {
			return nil, err
		}
		return LitecoinAttestation{Height: h}, nil
	case tagEthereum:
		h, err := readHeight(payload)
		if err != nil {
			return nil, err
		}
		return EthereumAttestation{Height: h}, nil
	case tagPending:
		uri, err := readNestedURI(payload)
		if err != nil {
			return nil, err
		}
		return PendingAttestation{URI: uri}, nil
	default:
		return UnknownAttestation{Tag: tag, Payload: payload}, nil
	}
}

func readHeight(payload []byte) (uint64, error) {
	r := &reader{data: payload}
	return r.readVaruint()
}

// readNestedURI unwraps the Pending attestation's nested varbytes: the
// outer varbytes (already consumed by the caller) contains a second
// len||bytes encoding whose inner bytes are the UTF-8 calendar URI.
func readNestedURI(payload []byte) (string, error) {
	r := &reader{data: payload}
	uri, err := r.readVarbytes()
	if err != nil {
		return "", err
	}
	return string(uri), nil
}

func parseContinuation(r *reader, depth int) (Operation, *Timestamp, error) {
	tagByte, err := r.readByte()
	if err != nil {
		return Operation{}, nil, err
	}
	tag := OpTag(tagByte)
	if !tag.Known() {
		return Operation{}, nil, fmt.Errorf("%w: 0x%02x", ErrUnknownOpTag, tagByte)
	}
	op := Operation{Tag: tag}
	if tag.HasArg() {
		arg, err := r.readVarbytes()
		if err != nil {
			return Operation{}, nil, err
		}
		op.Arg = arg
	}
	sub, err := parseTimestamp(r, depth+1)
	if err != nil {
		return Operation{}, nil, err
	}
	return op, sub, nil
}

// Write serializes f in canonical form: minimal-length varuints,
// attestations before continuations at each node, 0xFF markers before
// every branch except the last. It enforces the default Limits.
func (f *OtsFile) Write(w io.Writer) error {
	return f.WriteWithLimits(w, Limits{})
}

// WriteWithLimits serializes f, enforcing limits instead of the package
// defaults.
func (f *OtsFile) WriteWithLimits(w io.Writer, limits Limits) error {
	if _, err := w.Write(Magic); err != nil {
		return err
	}
	if _, err := otsbin.WriteVaruint(w, Version); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(f.HashOp)}); err != nil {
		return err
	}
	if _, err := w.Write(f.FileDigest); err != nil {
		return err
	}
	return writeTimestamp(w, f.Timestamp, 1, limits)
}

// Bytes serializes f to a freshly allocated buffer.
func (f *OtsFile) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes t as a standalone Timestamp, the shape a calendar
// server response takes. It enforces the default Limits.
func (t *Timestamp) Write(w io.Writer) error {
	return t.WriteWithLimits(w, Limits{})
}

// WriteWithLimits serializes t, enforcing limits instead of the package
// defaults.
func (t *Timestamp) WriteWithLimits(w io.Writer, limits Limits) error {
	return writeTimestamp(w, t, 1, limits)
}

// Bytes serializes t to a freshly allocated buffer.
func (t *Timestamp) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTimestamp(w io.Writer, ts *Timestamp, depth int, limits Limits) error {
	if depth > limits.maxDepth() {
		return ErrDepthExceeded
	}
	n := ts.BranchCount()
	if n == 0 {
		return ErrEmptyTimestamp
	}

	idx := 0
	writeMarkerIfNotLast := func() error {
		idx++
		if idx < n {
			_, err := w.Write([]byte{0xFF})
			return err
		}
		return nil
	}

	for _, a := range ts.Attestations {
		if err := writeMarkerIfNotLast(); err != nil {
			return err
		}
		if err := writeAttestation(w, a); err != nil {
			return err
		}
	}
	for _, ob := range ts.Ops {
		if err := writeMarkerIfNotLast(); err != nil {
			return err
		}
		if err := writeContinuation(w, ob, depth, limits); err != nil {
			return err
		}
	}
	return nil
}

func writeAttestation(w io.Writer, a Attestation) error {
	if _, err := w.Write([]byte{0x00}); err != nil {
		return err
	}
	tag := a.tag()
	if _, err := w.Write(tag[:]); err != nil {
		return err
	}
	payload, err := attestationPayload(a)
	if err != nil {
		return err
	}
	return writeVarbytes(w, payload)
}

func attestationPayload(a Attestation) ([]byte, error) {
	switch v := a.(type) {
	case BitcoinAttestation:
		return otsbin.AppendVaruint(nil, v.Height), nil
	case LitecoinAttestation:
		return otsbin.AppendVaruint(nil, v.Height), nil
	case EthereumAttestation:
		return otsbin.AppendVaruint(nil, v.Height), nil
	case PendingAttestation:
		uriBytes := []byte(v.URI)
		inner := otsbin.AppendVaruint(nil, uint64(len(uriBytes)))
		inner = append(inner, uriBytes...)
		return inner, nil
	case UnknownAttestation:
		return v.Payload, nil
	default:
		return nil, fmt.Errorf("ots: unknown attestation type %T", a)
	}
}

func writeContinuation(w io.Writer, ob OpBranch, depth int, limits Limits) error {
	if _, err := w.Write([]byte{byte(ob.Op.Tag)}); err != nil {
		return err
	}
	if ob.Op.Tag.HasArg() {
		if err := writeVarbytes(w, ob.Op.Arg); err != nil {
			return err
		}
	}
	return writeTimestamp(w, ob.Sub, depth+1, limits)
}

func writeVarbytes(w io.Writer, b []byte) error {
	if _, err := otsbin.WriteVaruint(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}
