package ots

// Timestamp is a node in the proof tree: a set of attestations at this
// point in the proof plus a sequence of operation continuations. Both
// lists are parallel branches of the same node; the writer always emits
// attestations before continuations, and within each group in the order
// stored (§3).
type Timestamp struct {
	Attestations []Attestation
	Ops          []OpBranch
}

// OpBranch is a single (Operation, Timestamp) continuation: applying Op to
// the node's message yields the message threaded into Sub.
type OpBranch struct {
	Op  Operation
	Sub *Timestamp
}

// BranchCount returns the number of parallel branches at this node.
func (t *Timestamp) BranchCount() int {
	return len(t.Attestations) + len(t.Ops)
}

// OtsFile is the document root produced by Stamper or Codec and consumed
// by Verifier, Upgrader, Formatter, and Codec.
type OtsFile struct {
	HashOp     HashAlgorithm
	FileDigest []byte
	Timestamp  *Timestamp
}
