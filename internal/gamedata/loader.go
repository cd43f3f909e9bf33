package gamedata

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/ba-companion/internal/calc"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

// Files are read in this order; later files override earlier ones.
var dataFiles = []string{"bond.yaml", "character.yaml", "promotion.yaml"}

// Paths helper for override files.
type Paths struct {
	BaseDir string // e.g. /etc/bacalc/data; empty means embedded defaults only
}

func (p Paths) FilePath(name string) string {
	return filepath.Join(p.BaseDir, name)
}

// Overrides lists every override file the loader reads, existing or not.
func (p Paths) Overrides() []string {
	if p.BaseDir == "" {
		return nil
	}
	out := make([]string, 0, len(dataFiles))
	for _, f := range dataFiles {
		out = append(out, p.FilePath(f))
	}
	return out
}

// Loader merges the embedded defaults with optional override files and
// caches the resulting Calculator.
type Loader struct {
	paths Paths

	mu   sync.RWMutex
	gen  uint64 // bumped by Invalidate
	raw  *RawConfig
	calc *calc.Calculator
}

// NewLoader creates a loader reading overrides from baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{paths: Paths{BaseDir: baseDir}}
}

// Paths returns the loader's file layout.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges defaults <- overrides without validating.
// The result is a deep copy; callers may modify it.
func (l *Loader) LoadMerged() (RawConfig, error) {
	l.mu.RLock()
	if l.raw != nil {
		cfg := cloneRaw(*l.raw)
		l.mu.RUnlock()
		return cfg, nil
	}
	gen := l.gen
	l.mu.RUnlock()

	merged, err := readDefaults()
	if err != nil {
		return RawConfig{}, fmt.Errorf("read defaults: %w", err)
	}
	for _, p := range l.paths.Overrides() {
		o, err := readYAML(p) // override files are optional
		if err != nil {
			return RawConfig{}, fmt.Errorf("read %s: %w", p, err)
		}
		merged = mergeRaw(merged, o)
	}

	l.storeRaw(merged, gen)
	return merged, nil
}

func (l *Loader) storeRaw(raw RawConfig, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen == gen {
		cached := cloneRaw(raw)
		l.raw = &cached
	}
}

// Calculator returns the calculator for the current merged data, building
// and caching it on first use.
func (l *Loader) Calculator() (*calc.Calculator, error) {
	l.mu.RLock()
	if c := l.calc; c != nil {
		l.mu.RUnlock()
		return c, nil
	}
	gen := l.gen
	l.mu.RUnlock()

	raw, err := l.LoadMerged()
	if err != nil {
		return nil, err
	}
	if err := ValidateRaw(raw); err != nil {
		return nil, err
	}
	c, err := Build(raw)
	if err != nil {
		return nil, err
	}

	l.storeCalc(c, gen)
	return c, nil
}

// storeCalc caches c only if no Invalidate ran since gen was read; otherwise
// c may have been built from files that changed underneath it.
func (l *Loader) storeCalc(c *calc.Calculator, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen == gen {
		l.calc = c
	}
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.raw = nil
	l.calc = nil
}

var defaultLoader = NewLoader("")

// Default returns the calculator built from the embedded data only.
func Default() (*calc.Calculator, error) {
	return defaultLoader.Calculator()
}

func readDefaults() (RawConfig, error) {
	var merged RawConfig
	for _, name := range dataFiles {
		b, err := defaultFS.ReadFile("defaults/" + name)
		if err != nil {
			return RawConfig{}, err
		}
		var cfg RawConfig
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return RawConfig{}, fmt.Errorf("%s: %w", name, err)
		}
		merged = mergeRaw(merged, cfg)
	}
	return merged, nil
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw overlays b onto a. Non-empty tables in b replace a's; scalar
// pointers in b override a's when set.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// bond
	switch {
	case out.Bond == nil && b.Bond != nil:
		c := *b.Bond
		out.Bond = &c
	case out.Bond != nil && b.Bond != nil:
		c := *out.Bond
		if len(b.Bond.Levels) > 0 {
			c.Levels = append([]LevelRow(nil), b.Bond.Levels...)
		}
		if len(b.Bond.Sources) > 0 {
			c.Sources = append([]SourceRow(nil), b.Bond.Sources...)
		}
		c.Pace = mergePace(c.Pace, b.Bond.Pace)
		out.Bond = &c
	}

	// character
	switch {
	case out.Character == nil && b.Character != nil:
		c := *b.Character
		out.Character = &c
	case out.Character != nil && b.Character != nil:
		c := *out.Character
		if len(b.Character.Levels) > 0 {
			c.Levels = append([]LevelRow(nil), b.Character.Levels...)
		}
		if len(b.Character.Books) > 0 {
			c.Books = append([]BookRow(nil), b.Character.Books...)
		}
		if b.Character.CreditsPerExp != nil {
			c.CreditsPerExp = b.Character.CreditsPerExp
		}
		out.Character = &c
	}

	// promotion
	switch {
	case out.Promotion == nil && b.Promotion != nil:
		c := *b.Promotion
		out.Promotion = &c
	case out.Promotion != nil && b.Promotion != nil:
		c := *out.Promotion
		if len(b.Promotion.Requirements) > 0 {
			c.Requirements = append([]RequirementRow(nil), b.Promotion.Requirements...)
		}
		if len(b.Promotion.WeaponUpgrades) > 0 {
			c.WeaponUpgrades = append([]int(nil), b.Promotion.WeaponUpgrades...)
		}
		if e := b.Promotion.Eligma; e != nil {
			var m EligmaConfig
			if c.Eligma != nil {
				m = *c.Eligma
			}
			if e.BatchSize != nil {
				m.BatchSize = e.BatchSize
			}
			if len(e.Prices) > 0 {
				m.Prices = append([]int(nil), e.Prices...)
			}
			c.Eligma = &m
		}
		out.Promotion = &c
	}

	return out
}

func mergePace(a, b *PaceConfig) *PaceConfig {
	if b == nil {
		return a
	}
	var out PaceConfig
	if a != nil {
		out = *a
	}
	if b.PatExp != nil {
		out.PatExp = b.PatExp
	}
	if b.GiftExp != nil {
		out.GiftExp = b.GiftExp
	}
	if b.BaseMonthly != nil {
		out.BaseMonthly = b.BaseMonthly
	}
	if b.MaxPats != nil {
		out.MaxPats = b.MaxPats
	}
	if b.MaxGifts != nil {
		out.MaxGifts = b.MaxGifts
	}
	return &out
}

// cloneRaw copies every section, slice and pointer so the copy shares
// nothing with cfg.
func cloneRaw(cfg RawConfig) RawConfig {
	out := cfg
	if b := cfg.Bond; b != nil {
		nb := *b
		nb.Levels = append([]LevelRow(nil), b.Levels...)
		nb.Sources = append([]SourceRow(nil), b.Sources...)
		if p := b.Pace; p != nil {
			nb.Pace = &PaceConfig{
				PatExp:      cloneInt(p.PatExp),
				GiftExp:     cloneInt(p.GiftExp),
				BaseMonthly: cloneInt(p.BaseMonthly),
				MaxPats:     cloneInt(p.MaxPats),
				MaxGifts:    cloneInt(p.MaxGifts),
			}
		}
		out.Bond = &nb
	}
	if c := cfg.Character; c != nil {
		nc := *c
		nc.Levels = append([]LevelRow(nil), c.Levels...)
		nc.Books = append([]BookRow(nil), c.Books...)
		nc.CreditsPerExp = cloneInt(c.CreditsPerExp)
		out.Character = &nc
	}
	if p := cfg.Promotion; p != nil {
		np := *p
		np.Requirements = append([]RequirementRow(nil), p.Requirements...)
		np.WeaponUpgrades = append([]int(nil), p.WeaponUpgrades...)
		if e := p.Eligma; e != nil {
			np.Eligma = &EligmaConfig{
				BatchSize: cloneInt(e.BatchSize),
				Prices:    append([]int(nil), e.Prices...),
			}
		}
		out.Promotion = &np
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
