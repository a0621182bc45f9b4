// Package ots implements the client side of the OpenTimestamps protocol: a
// binary proof format that anchors the hash of some data to a Bitcoin block,
// plus the three operations a client performs against it.
//
//   - Parse/Write round-trip the ".ots" binary proof format (codec.go).
//   - Stamp submits a digest to calendar servers and returns a pending proof.
//   - Upgrade replaces pending leaves with completed Bitcoin attestations.
//   - Verify replays a proof against a file digest and a real block header.
//
// The tree shape is shared by all three: a Timestamp node holds a set of
// attestations and a set of (Operation, Timestamp) continuations, and every
// walker (verify, upgrade, format) descends it depth-first, attestations
// before continuations, to a caller-configurable depth bound.
package ots

// MaxDepth is the default recursion bound on both the parser and the tree
// walkers, as defense against pathological or adversarial proof files. A
// caller threads a different bound through a Limits value; see
// ParseWithLimits, Verifier.Limits, and Upgrader.Limits.
const MaxDepth = 256

// MaxVarbytes is the default bound on the size of any single
// length-prefixed byte field the parser will accept, guarding memory
// against a hostile Length value. A caller overrides it via Limits.
const MaxVarbytes = 1 << 20 // 1 MiB

// MaxCalendarResponseBytes bounds the size of a calendar server's response
// body during stamp and upgrade.
const MaxCalendarResponseBytes = 64 << 10 // 64 KiB

// Limits bounds the codec and tree walkers against pathological or
// adversarial proof files. A zero Limits falls back to MaxDepth and
// MaxVarbytes, so the zero value is always safe to use.
type Limits struct {
	MaxDepth    int
	MaxVarbytes int64
}

func (l Limits) maxDepth() int {
	if l.MaxDepth > 0 {
		return l.MaxDepth
	}
	return MaxDepth
}

func (l Limits) maxVarbytes() int64 {
	if l.MaxVarbytes > 0 {
		return l.MaxVarbytes
	}
	return MaxVarbytes
}
