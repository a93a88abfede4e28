package consent

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ClientContext carries the caller-environment identifiers supplied by the
// HTTP layer. The recorder never derives these itself.
type ClientContext struct {
	IPAddress string
	UserAgent string
}

// Record is the auditable proof that a customer accepted the policy text at
// a specific instant. Immutable once built.
type Record struct {
	PolicyFingerprint string `json:"policy_fingerprint"`
	AcceptedAt        string `json:"accepted_at"`
	IPAddress         string `json:"ip_address"`
	UserAgent         string `json:"user_agent"`
}

// FingerprintFunc digests policy text into a short stable identifier. It is
// an audit fingerprint, not a cryptographic commitment, and can be swapped
// for a stronger hash without touching the rest of the flow.
type FingerprintFunc func(string) string

func Fingerprint(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

type Recorder struct {
	fingerprint FingerprintFunc
}

func NewRecorder(fn FingerprintFunc) *Recorder {
	if fn == nil {
		fn = Fingerprint
	}
	return &Recorder{fingerprint: fn}
}

// Record builds a consent record bound to the given acceptance instant.
// Callers invoke it exactly once per submission that passes validation; a
// retry after failure produces a fresh record with a new instant.
func (r *Recorder) Record(policyText string, acceptedAt time.Time, cc ClientContext) Record {
	return Record{
		PolicyFingerprint: r.fingerprint(policyText),
		AcceptedAt:        acceptedAt.UTC().Format(time.RFC3339),
		IPAddress:         cc.IPAddress,
		UserAgent:         cc.UserAgent,
	}
}
