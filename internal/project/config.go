package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"approxc/internal/sema"
)

// Config mirrors approx.toml.
type Config struct {
	Check   CheckConfig   `toml:"check"`
	Library LibraryConfig `toml:"library"`
	Sources SourcesConfig `toml:"sources"`
}

type CheckConfig struct {
	RedundantEscape string `toml:"redundant_escape"` // off|warn
	ApproxSubscript string `toml:"approx_subscript"` // off|warn|error
	MaxDiagnostics  int    `toml:"max_diagnostics"`
}

type LibraryConfig struct {
	// Polymorphic — дополнительные функции, полиморфные по квалификатору указателя.
	Polymorphic []string `toml:"polymorphic,omitempty"`
}

type SourcesConfig struct {
	// Extensions, которые check/audit берут при обходе каталога.
	Extensions []string `toml:"extensions,omitempty"`
	// Exclude — glob-шаблоны относительно корня проекта.
	Exclude []string `toml:"exclude,omitempty"`
}

// Manifest is a loaded approx.toml with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the configuration used when no approx.toml is found.
func Default() Config {
	return Config{
		Check: CheckConfig{
			RedundantEscape: "off",
			ApproxSubscript: "warn",
			MaxDiagnostics:  100,
		},
		Sources: SourcesConfig{Extensions: []string{".c", ".h"}},
	}
}

// LoadConfig decodes path over Default() and validates it.
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
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load finds approx.toml above start and loads it. ok is false when no file
// exists; the returned manifest then carries Default().
func Load(start string) (*Manifest, bool, error) {
	path, ok, err := FindConfig(start)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Manifest{Config: Default()}, false, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch strings.ToLower(c.Check.RedundantEscape) {
	case "", "off", "warn":
	default:
		return fmt.Errorf("[check].redundant_escape: unknown value %q (want off|warn)", c.Check.RedundantEscape)
	}
	if _, err := sema.ParseSubscriptPolicy(c.Check.ApproxSubscript); err != nil {
		return fmt.Errorf("[check].approx_subscript: %w", err)
	}
	if c.Check.MaxDiagnostics < 0 {
		return errors.New("[check].max_diagnostics must be >= 0")
	}
	for _, name := range c.Library.Polymorphic {
		if !isIdent(name) {
			return fmt.Errorf("[library].polymorphic: %q is not an identifier", name)
		}
	}
	for _, ext := range c.Sources.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("[sources].extensions: %q must start with '.'", ext)
		}
	}
	for _, pat := range c.Sources.Exclude {
		if _, err := filepath.Match(pat, ""); err != nil {
			return fmt.Errorf("[sources].exclude: bad pattern %q: %w", pat, err)
		}
	}
	return nil
}

// Sema converts the [check]/[library] tables into checker options.
// The config is expected to be validated.
func (c Config) Sema() sema.Config {
	policy, err := sema.ParseSubscriptPolicy(c.Check.ApproxSubscript)
	if err != nil {
		policy = sema.SubscriptWarn
	}
	return sema.Config{
		RedundantEscape: strings.EqualFold(c.Check.RedundantEscape, "warn"),
		ApproxSubscript: policy,
		Polymorphic:     append([]string(nil), c.Library.Polymorphic...),
	}
}

// Includes reports whether a file under root should be checked.
func (c Config) Includes(root, path string) bool {
	exts := c.Sources.Extensions
	if len(exts) == 0 {
		exts = Default().Sources.Extensions
	}
	ext := filepath.Ext(path)
	matched := false
	for _, e := range exts {
		if e == ext {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range c.Sources.Exclude {
		if ok, _ := filepath.Match(pat, rel); ok {
			return false
		}
		if ok, _ := filepath.Match(pat, filepath.Base(rel)); ok {
			return false
		}
	}
	return true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

const defaultConfigText = `# approxc project configuration

[check]
# off | warn: report ENDORSE/DEDORSE around expressions with nothing to relax
redundant_escape = "off"
# off | warn | error: APPROX values used as array subscripts
approx_subscript = "warn"
max_diagnostics = 100

[library]
# functions whose pointer arguments accept any pointee qualifier
polymorphic = []

[sources]
extensions = [".c", ".h"]
exclude = []
`

// WriteDefault creates dir/approx.toml; it refuses to overwrite.
func WriteDefault(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("project already initialized: %s exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfigText), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
