package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"approxc/internal/diag"
	"approxc/internal/project"
	"approxc/internal/qual"
	"approxc/internal/sema"
	"approxc/internal/source"
)

// Current schema version - increment when UnitPayload format changes
const diskCacheSchemaVersion uint16 = 1

// schemaDigest входит в ключ, чтобы смена схемы не читала старые записи.
var schemaDigest = project.Digest{0: byte(diskCacheSchemaVersion >> 8), 1: byte(diskCacheSchemaVersion)}

// DiskCache хранит вердикты единиц трансляции по хешу содержимого и конфига.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedNote / CachedFix / CachedDiagnostic хранят спаны как смещения: FileID
// при следующем запуске будет другим.
type CachedNote struct {
	Start, End uint32
	Msg        string
}

type CachedEdit struct {
	Start, End uint32
	NewText    string
}

type CachedFix struct {
	Title string
	Edits []CachedEdit
}

type CachedDiagnostic struct {
	Severity   uint8
	Code       uint16
	Message    string
	Start, End uint32
	Construct  string
	Expected   string
	Found      string
	HasQual    bool
	Notes      []CachedNote
	Fixes      []CachedFix
}

// CachedSignature is sema.Signature without the file-bound span.
type CachedSignature struct {
	Name        string
	Start, End  uint32
	Text        string
	Func        bool
	Unspecified bool
	Shapes      [][]uint8
}

// UnitPayload is what the cache stores per unit.
type UnitPayload struct {
	Schema      uint16
	Path        string
	Diagnostics []CachedDiagnostic
	Signatures  []CachedSignature
	Markers     int
}

// NewDiskCache opens (creating if needed) a cache rooted at dir.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCache initializes a disk cache at the standard location
// ($XDG_CACHE_HOME/app or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// UnitKey: H(content || config || schema).
func UnitKey(file *source.File, cfg project.Config) project.Digest {
	return project.Combine(project.Digest(file.Hash), cfg.Hash(), schemaDigest)
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := key.String()
	return filepath.Join(c.dir, "units", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *UnitPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) //nolint:errcheck // после Rename файла уже нет

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload from the disk cache. A payload of
// another schema is treated as a miss.
func (c *DiskCache) Get(key project.Digest, out *UnitPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "units"))
}

func toPayload(u *UnitResult) *UnitPayload {
	p := &UnitPayload{Schema: diskCacheSchemaVersion, Path: u.Path, Markers: u.Markers}
	for _, d := range u.Bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		if d.Qual != nil {
			cd.HasQual = true
			cd.Construct, cd.Expected, cd.Found = d.Qual.Construct, d.Qual.Expected, d.Qual.Found
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, fx := range d.Fixes {
			cf := CachedFix{Title: fx.Title}
			for _, e := range fx.Edits {
				cf.Edits = append(cf.Edits, CachedEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		p.Diagnostics = append(p.Diagnostics, cd)
	}
	for _, s := range u.Signatures {
		cs := CachedSignature{
			Name: s.Name, Start: s.Span.Start, End: s.Span.End,
			Text: s.Text, Func: s.Func, Unspecified: s.Unspecified,
		}
		for _, shape := range s.Shapes {
			row := make([]uint8, len(shape))
			for i, q := range shape {
				row[i] = uint8(q)
			}
			cs.Shapes = append(cs.Shapes, row)
		}
		p.Signatures = append(p.Signatures, cs)
	}
	return p
}

// fromPayload rebuilds a unit verdict with spans bound to fileID.
func fromPayload(p *UnitPayload, fileID source.FileID, maxDiag int) *UnitResult {
	span := func(start, end uint32) source.Span { return source.Span{File: fileID, Start: start, End: end} }
	u := &UnitResult{Path: p.Path, FileID: fileID, Bag: diag.NewBag(maxDiag), Markers: p.Markers, Cached: true}
	for _, cd := range p.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), span(cd.Start, cd.End), cd.Message)
		if cd.HasQual {
			d.Qual = &diag.QualDetail{Construct: cd.Construct, Expected: cd.Expected, Found: cd.Found}
		}
		for _, n := range cd.Notes {
			d = d.WithNote(span(n.Start, n.End), n.Msg)
		}
		for _, fx := range cd.Fixes {
			edits := make([]diag.FixEdit, len(fx.Edits))
			for i, e := range fx.Edits {
				edits[i] = diag.FixEdit{Span: span(e.Start, e.End), NewText: e.NewText}
			}
			d = d.WithFix(fx.Title, edits...)
		}
		u.Bag.Add(d)
	}
	for _, cs := range p.Signatures {
		sig := sema.Signature{
			Name: cs.Name, Span: span(cs.Start, cs.End),
			Text: cs.Text, Func: cs.Func, Unspecified: cs.Unspecified,
		}
		for _, row := range cs.Shapes {
			sig.Shapes = append(sig.Shapes, qualRow(row))
		}
		u.Signatures = append(u.Signatures, sig)
	}
	return u
}

func qualRow(row []uint8) []qual.Qualifier {
	out := make([]qual.Qualifier, len(row))
	for i, q := range row {
		out[i] = qual.Qualifier(q)
	}
	return out
}
