package project

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/BurntSushi/toml"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Combine: H( content || part1 || part2 ... ). Порядок частей значим.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Hash fingerprints the config for cache keys: the canonical TOML encoding,
// so formatting and comments in approx.toml do not matter.
func (c Config) Hash() Digest {
	h := sha256.New()
	// кодирование структуры без map не падает
	_ = toml.NewEncoder(h).Encode(c)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
