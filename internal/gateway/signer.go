package gateway

import (
	"crypto/md5"
	"encoding/hex"
)

// Signer computes and checks the digest carried in the sign field. The
// legacy gateway generation uses MD5; the interface keeps the algorithm
// swappable without touching callers.
type Signer interface {
	// Algorithm returns the value sent as sign_type.
	Algorithm() string

	// Sign computes the digest over the canonical text plus key suffix.
	Sign(base string) string

	// Verify recomputes the digest and compares it to the candidate.
	Verify(base, candidate string) bool
}

type md5Signer struct{}

// NewMD5Signer returns the signer used by the legacy gateway protocol.
func NewMD5Signer() Signer {
	return md5Signer{}
}

func (md5Signer) Algorithm() string {
	return "MD5"
}

func (md5Signer) Sign(base string) string {
	sum := md5.Sum([]byte(base))
	return hex.EncodeToString(sum[:])
}

func (s md5Signer) Verify(base, candidate string) bool {
	if candidate == "" {
		return false
	}
	return s.Sign(base) == candidate
}
