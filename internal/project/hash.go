package project

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Digest is a SHA-256 fingerprint of the triage-relevant configuration.
type Digest [32]byte

// DigestOf hashes each part with a length prefix so that part boundaries
// are unambiguous.
func DigestOf(parts ...string) Digest {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(strconv.Itoa(len(p))))
		_, _ = h.Write([]byte{':'})
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Combine builds H(first || rest...). Order matters.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d was never set.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Digest fingerprints everything that influences classification and
// suppression: signature rules in order, noise phrases, the hard-failure
// marker and the launch banners.
func (c Config) Digest() Digest {
	sig := c.Signatures
	d := DigestOf("signatures", strconv.Itoa(sig.Version), sig.HardFailureMarker)
	for _, r := range sig.Rules {
		d = Combine(d, DigestOf(r.Name, r.Pattern, r.Category, r.RefineContains, r.RefineCategory))
	}
	d = Combine(d, DigestOf(append([]string{"noise"}, c.Noise.Phrases...)...))
	return Combine(d, DigestOf(append([]string{"launch"}, c.Launch.Banners...)...))
}
