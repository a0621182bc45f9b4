package ots

import "fmt"

// Attestation is the terminal of a proof path: a claim that the current
// message equals something provable. It is a sealed tagged union; the
// concrete cases below are the only implementations.
type Attestation interface {
	// tag returns the attestation's 8-byte wire tag.
	tag() [8]byte
	// String renders the attestation the way Formatter prints it.
	String() string
}

// Wire tags for the four recognized attestation kinds (§4.1). Any other
// 8-byte tag is preserved as UnknownAttestation.
var (
	tagBitcoin  = [8]byte{0x05, 0x88, 0x96, 0x0d, 0x73, 0xd7, 0x19, 0x01}
	tagLitecoin = [8]byte{0x06, 0x86, 0x9a, 0x0d, 0x73, 0xd7, 0x1b, 0x45}
	tagEthereum = [8]byte{0x30, 0xfe, 0x80, 0x87, 0xb5, 0xc7, 0xea, 0xd7}
	tagPending  = [8]byte{0x83, 0xdf, 0xe3, 0x0d, 0x2e, 0xf9, 0x0c, 0x8e}
)

// BitcoinAttestation claims the current message is the merkle root of the
// Bitcoin block at Height.
type BitcoinAttestation struct{ Height uint64 }

func (BitcoinAttestation) tag() [8]byte { return tagBitcoin }
func (a BitcoinAttestation) String() string {
	return fmt.Sprintf("Bitcoin block #%d", a.Height)
}

// LitecoinAttestation claims the current message is the merkle root of the
// Litecoin block at Height. Recognized but never verified (Non-goal).
type LitecoinAttestation struct{ Height uint64 }

func (LitecoinAttestation) tag() [8]byte { return tagLitecoin }
func (a LitecoinAttestation) String() string {
	return fmt.Sprintf("Litecoin block #%d", a.Height)
}

// EthereumAttestation claims the current message is committed in the
// Ethereum block at Height. Recognized but never verified (Non-goal).
type EthereumAttestation struct{ Height uint64 }

func (EthereumAttestation) tag() [8]byte { return tagEthereum }
func (a EthereumAttestation) String() string {
	return fmt.Sprintf("Ethereum block #%d", a.Height)
}

// PendingAttestation records a calendar server that has not yet confirmed
// a Bitcoin attestation for this path. URI is the calendar's base URL.
type PendingAttestation struct{ URI string }

func (PendingAttestation) tag() [8]byte { return tagPending }
func (a PendingAttestation) String() string {
	return fmt.Sprintf("Pending (%s)", a.URI)
}

// UnknownAttestation preserves an unrecognized attestation verbatim so
// round-tripping a proof never loses data.
type UnknownAttestation struct {
	Tag     [8]byte
	Payload []byte
}

func (a UnknownAttestation) tag() [8]byte { return a.Tag }
func (a UnknownAttestation) String() string {
	return fmt.Sprintf("Unknown (%x)", a.Tag)
}
