package project

import "testing"

func TestConfigDigestStable(t *testing.T) {
	a, b := Default(), Default()
	if a.Digest() != b.Digest() {
		t.Fatal("identical configs must hash identically")
	}
	if a.Digest().IsZero() || len(a.Digest().String()) != 64 {
		t.Errorf("digest = %s", a.Digest())
	}
}

func TestConfigDigestSensitive(t *testing.T) {
	base := Default().Digest()
	cases := map[string]func(*Config){
		"marker":  func(c *Config) { c.Signatures.HardFailureMarker = "UB: " },
		"version": func(c *Config) { c.Signatures.Version = 9 },
		"noise":   func(c *Config) { c.Noise.Phrases = c.Noise.Phrases[:1] },
		"banner":  func(c *Config) { c.Launch.Banners = nil },
		"rule": func(c *Config) {
			c.Signatures.Rules = []SignatureRule{{Name: "x", Pattern: "x", Category: "memory-free"}}
		},
	}
	for name, mutate := range cases {
		c := Default()
		mutate(&c)
		if c.Digest() == base {
			t.Errorf("%s: digest did not change", name)
		}
	}
}

func TestDigestOfBoundaries(t *testing.T) {
	if DigestOf("ab", "c") == DigestOf("a", "bc") {
		t.Error("part boundaries must matter")
	}
}

func TestDigestIgnoresToolchainAndReport(t *testing.T) {
	c := Default()
	c.Toolchain.Channel = "nightly-2024-08-01"
	c.Report.Format = "json"
	if c.Digest() != Default().Digest() {
		t.Error("toolchain and report settings do not affect triage")
	}
}
