package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"miriguard/internal/diag"
	"miriguard/internal/miri"
	"miriguard/internal/triage"
)

// Config is the decoded miriguard.toml.
type Config struct {
	Toolchain  ToolchainConfig  `toml:"toolchain"`
	Signatures SignaturesConfig `toml:"signatures"`
	Noise      NoiseConfig      `toml:"noise"`
	Launch     LaunchConfig     `toml:"launch"`
	Test       TestConfig       `toml:"test"`
	Report     ReportConfig     `toml:"report"`
}

type ToolchainConfig struct {
	Cargo   string `toml:"cargo"`
	Channel string `toml:"channel"`
}

type SignaturesConfig struct {
	Version           int             `toml:"version"`
	HardFailureMarker string          `toml:"hard_failure_marker"`
	Rules             []SignatureRule `toml:"rule"`
}

// SignatureRule is the textual form of a triage.Signature.
type SignatureRule struct {
	Name           string `toml:"name"`
	Pattern        string `toml:"pattern"`
	Category       string `toml:"category"`
	RefineContains string `toml:"refine_contains"`
	RefineCategory string `toml:"refine_category"`
}

type NoiseConfig struct {
	Phrases []string `toml:"phrases"`
}

type LaunchConfig struct {
	Banners []string `toml:"banners"`
}

type TestConfig struct {
	// Exact passes --exact to the test harness for enumerated targets.
	Exact bool `toml:"exact"`
}

type ReportConfig struct {
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// Manifest is a loaded configuration file.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Toolchain: ToolchainConfig{Cargo: "cargo", Channel: "nightly"},
		Signatures: SignaturesConfig{
			Version:           triage.DefaultSignatureVersion,
			HardFailureMarker: triage.DefaultHardFailureMarker,
		},
		Noise:  NoiseConfig{Phrases: append([]string(nil), triage.DefaultNoisePhrases...)},
		Launch: LaunchConfig{Banners: append([]string(nil), miri.DefaultBanners...)},
		Test:   TestConfig{Exact: true},
		Report: ReportConfig{Format: "text"},
	}
}

// LoadManifest finds and loads miriguard.toml above startDir. ok is false when
// no file exists; the returned manifest then carries Default().
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Manifest{Config: Default()}, false, nil
	}
	m, err := LoadManifestFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadManifestFile loads the given path.
func LoadManifestFile(path string) (*Manifest, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// LoadConfig decodes path over Default() and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("signatures", "rule") && !meta.IsDefined("signatures", "version") {
		return Config{}, fmt.Errorf("%s: [signatures] with custom rules needs a version", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks fields that cannot be caught by decoding.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Toolchain.Cargo) == "" {
		return fmt.Errorf("[toolchain].cargo must not be empty")
	}
	if strings.TrimSpace(c.Toolchain.Channel) == "" {
		return fmt.Errorf("[toolchain].channel must not be empty")
	}
	if _, err := c.SignatureSet(); err != nil {
		return err
	}
	return nil
}

// SignatureSet builds the classifier vocabulary. Without custom rules the
// built-in set is used.
func (c Config) SignatureSet() (*triage.SignatureSet, error) {
	if len(c.Signatures.Rules) == 0 {
		return triage.DefaultSignatures(), nil
	}
	sigs := make([]triage.Signature, 0, len(c.Signatures.Rules))
	for i, r := range c.Signatures.Rules {
		cat, err := diag.ParseCategory(r.Category)
		if err != nil {
			return nil, fmt.Errorf("[[signatures.rule]] #%d: %w", i+1, err)
		}
		var refine *triage.Refinement
		if r.RefineContains != "" || r.RefineCategory != "" {
			rc, err := diag.ParseCategory(r.RefineCategory)
			if err != nil {
				return nil, fmt.Errorf("[[signatures.rule]] #%d refine: %w", i+1, err)
			}
			refine = &triage.Refinement{Contains: r.RefineContains, Category: rc}
		}
		sig, err := triage.CompileSignature(r.Name, r.Pattern, cat, refine)
		if err != nil {
			return nil, fmt.Errorf("[[signatures.rule]] #%d: %w", i+1, err)
		}
		sigs = append(sigs, sig)
	}
	return triage.NewSignatureSet(c.Signatures.Version, sigs...)
}

// NoiseFilter builds the trailer filter.
func (c Config) NoiseFilter() triage.NoiseFilter {
	return triage.NewNoiseFilter(c.Noise.Phrases...)
}
