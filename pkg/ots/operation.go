package ots

import "fmt"

// OpTag identifies which of the eight Operation cases a continuation
// carries. The four hash cases intentionally share their tag byte with the
// matching HashAlgorithm constant (§3): the same byte means the same thing
// in both roles.
type OpTag byte

const (
	OpAppend  OpTag = 0xf0
	OpPrepend OpTag = 0xf1
	OpReverse OpTag = 0xf2
	OpHexlify OpTag = 0xf3

	OpSHA256    OpTag = OpTag(SHA256)
	OpSHA1      OpTag = OpTag(SHA1)
	OpRIPEMD160 OpTag = OpTag(RIPEMD160)
	OpKeccak256 OpTag = OpTag(KECCAK256)
)

// HasArg reports whether the operation carries a length-prefixed byte
// payload on the wire (Append and Prepend only).
func (t OpTag) HasArg() bool {
	return t == OpAppend || t == OpPrepend
}

// Known reports whether t is one of the eight recognized operation tags.
func (t OpTag) Known() bool {
	switch t {
	case OpAppend, OpPrepend, OpReverse, OpHexlify, OpSHA256, OpSHA1, OpRIPEMD160, OpKeccak256:
		return true
	}
	return false
}

// Operation is a single node-to-child transformation along a proof path.
// Arg is populated only for Append and Prepend.
type Operation struct {
	Tag OpTag
	Arg []byte
}

// Name renders the operation's name the way Formatter prints it.
func (o Operation) Name() string {
	switch o.Tag {
	case OpAppend:
		return fmt.Sprintf("append(%x)", o.Arg)
	case OpPrepend:
		return fmt.Sprintf("prepend(%x)", o.Arg)
	case OpReverse:
		return "reverse"
	case OpHexlify:
		return "hexlify"
	case OpSHA256:
		return "SHA256"
	case OpSHA1:
		return "SHA1"
	case OpRIPEMD160:
		return "RIPEMD160"
	case OpKeccak256:
		return "KECCAK256"
	default:
		return fmt.Sprintf("op(0x%02x)", byte(o.Tag))
	}
}

// Append returns an Append operation with payload d.
func Append(d []byte) Operation { return Operation{Tag: OpAppend, Arg: d} }

// Prepend returns a Prepend operation with payload d.
func Prepend(d []byte) Operation { return Operation{Tag: OpPrepend, Arg: d} }

// Reverse returns the Reverse operation.
func Reverse() Operation { return Operation{Tag: OpReverse} }

// Hexlify returns the Hexlify operation.
func Hexlify() Operation { return Operation{Tag: OpHexlify} }

// HashOp returns the hash operation corresponding to alg, or the zero
// Operation if alg is not a known algorithm.
func HashOp(alg HashAlgorithm) Operation {
	if !alg.Known() {
		return Operation{}
	}
	return Operation{Tag: OpTag(alg)}
}
