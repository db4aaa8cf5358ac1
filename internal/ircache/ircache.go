// Package ircache stores translated documents on disk, keyed by the
// digest of the inputs that produced them. Missing, corrupt, and
// incompatible entries all read as misses, so the cache never has to be
// invalidated by hand.
package ircache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"ridl/internal/irdump"
)

// Cache is a directory of cached documents. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a cache at dir, creating the directory if needed.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenDefault opens the per-user cache at the standard location.
func OpenDefault() (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(base, "ridl"))
}

// Digest hashes one input's content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Key derives the cache key for one translation from the document schema,
// the flavor, and the digest of every input. Input order does not matter.
func Key(flavor string, digests []string) string {
	sorted := slices.Clone(digests)
	slices.Sort(sorted)
	h := sha256.New()
	fmt.Fprintf(h, "schema %d\n", irdump.SchemaVersion)
	fmt.Fprintf(h, "flavor %s\n", flavor)
	for _, d := range sorted {
		fmt.Fprintln(h, d)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) pathFor(key string) string {
	return filepath.Join(c.dir, key+".irc")
}

// Load returns the cached document for key.
func (c *Cache) Load(key string) (*irdump.Document, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	defer func() { _ = f.Close() }()

	doc, err := irdump.DecodeMsgpack(f)
	if err != nil {
		return nil, false
	}
	return doc, true
}

// Store writes the document under key. The entry appears atomically: a
// concurrent Load sees either the old entry or the new one, never a
// partial write.
func (c *Cache) Store(key string, doc *irdump.Document) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := doc.EncodeMsgpack(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), c.pathFor(key))
}
