package ots

// HashAlgorithm is a closed enumeration of the digest algorithms the OTS
// wire format can name, identified on the wire by a single tag byte that
// doubles as the corresponding Operation's tag (§4.2).
type HashAlgorithm byte

const (
	SHA256    HashAlgorithm = 0x08
	SHA1      HashAlgorithm = 0x02
	RIPEMD160 HashAlgorithm = 0x03
	KECCAK256 HashAlgorithm = 0x67
)

// DigestLen returns the fixed digest length in bytes for a, or 0 if a is
// not one of the four known algorithms.
func (a HashAlgorithm) DigestLen() int {
	switch a {
	case SHA256, KECCAK256:
		return 32
	case SHA1, RIPEMD160:
		return 20
	}
	return 0
}

// String renders the algorithm's canonical name, as used by Formatter.
func (a HashAlgorithm) String() string {
	switch a {
	case SHA256:
		return "SHA256"
	case SHA1:
		return "SHA1"
	case RIPEMD160:
		return "RIPEMD160"
	case KECCAK256:
		return "KECCAK256"
	default:
		return "unknown"
	}
}

// Known reports whether a is one of the four recognized algorithms.
func (a HashAlgorithm) Known() bool {
	switch a {
	case SHA256, SHA1, RIPEMD160, KECCAK256:
		return true
	}
	return false
}
