package project

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

const cacheSchemaVersion uint16 = 1

// CachedDiagnostic is a msgpack-serializable snapshot of one diagnostic,
// independent of any particular session's source.FileSet/FileID so it
// can be replayed after the process that produced it has exited.
type CachedDiagnostic struct {
	Severity uint8
	Code     string
	Message  string
	Line     uint32
	Col      uint32
}

// CachedUnit is what DiskCache persists per source file in ".asl-cache",
// keyed by the file's content digest so a stale entry is invalidated
// automatically the moment the file changes. Neither asli nor asl2c opens
// a DiskCache.
type CachedUnit struct {
	Schema      uint16
	Path        string
	ContentHash Digest
	Broken      bool
	Diagnostics []CachedDiagnostic
}

// DiskCache persists CachedUnit entries under a ".asl-cache" directory,
// serialized with github.com/vmihailenco/msgpack/v5; writes stage through
// a temp file and rename so a crash never leaves a torn entry.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache creates (if needed) and returns a disk cache rooted at
// "<root>/.asl-cache".
func OpenDiskCache(root string) (*DiskCache, error) {
	dir := filepath.Join(root, ".asl-cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put serializes and atomically writes unit under its content digest.
func (c *DiskCache) Put(unit *CachedUnit) error {
	if c == nil {
		return nil
	}
	unit.Schema = cacheSchemaVersion
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(unit.ContentHash)
	tmp, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := msgpack.NewEncoder(tmp).Encode(unit); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Get looks up a cached unit by content digest.
func (c *DiskCache) Get(key Digest) (*CachedUnit, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var unit CachedUnit
	if err := msgpack.NewDecoder(f).Decode(&unit); err != nil {
		return nil, false, err
	}
	if unit.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &unit, true, nil
}

// DropAll removes every file in the cache directory.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to list cache dir: %w", err)
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
