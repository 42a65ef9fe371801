package kvstore

import (
	"context"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/weo-soft/poeData-sub000/resource"
)

const valueFileExt = ".val"

// DiskConfig holds configuration for the disk store.
type DiskConfig struct {
	// RootDir is the directory where values are stored, one file per key.
	RootDir string

	// Sync forces an fsync after every write. Slower but survives power loss.
	Sync bool

	// Controller tracks stored bytes against a quota and meters file IO.
	// Optional; nil disables both.
	Controller *resource.Controller
}

// Disk is a filesystem-backed Store. Each key maps to one file whose name is
// the URL-safe base64 encoding of the key, so arbitrary key strings never
// escape the root directory.
//
// Writes go through a temp file and rename, so a crashed or cancelled Put
// leaves either the old value or the new one, never a torn file.
type Disk struct {
	mu      sync.Mutex
	rootDir string
	sync    bool
	rc      *resource.Controller

	// sizes caches per-key file sizes, filled by the startup scan and
	// maintained on Put/Delete. reserved tracks how many bytes each key
	// actually holds against the quota; a pre-existing file on an over-quota
	// store may be indexed without a reservation, and releasing bytes that
	// were never reserved would corrupt the controller's accounting.
	sizes    map[string]int64
	reserved map[string]int64
}

// NewDisk creates a disk store rooted at cfg.RootDir, creating the directory
// if needed. Existing value files are scanned so quota accounting includes
// entries persisted by earlier processes.
func NewDisk(cfg DiskConfig) (*Disk, error) {
	if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
		return nil, err
	}

	d := &Disk{
		rootDir:  cfg.RootDir,
		sync:     cfg.Sync,
		rc:       cfg.Controller,
		sizes:    make(map[string]int64),
		reserved: make(map[string]int64),
	}

	if err := d.scanExistingFiles(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Disk) scanExistingFiles() error {
	entries, err := os.ReadDir(d.rootDir)
	if err != nil {
		return err
	}

	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		key, ok := decodeKeyFileName(ent.Name())
		if !ok {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		// Pre-existing entries count against the quota but never fail the
		// open; an over-quota store simply rejects further writes. Entries
		// that do not fit stay readable with no reservation, so deleting
		// them later must not release bytes the controller never granted.
		if d.rc.TryReserve(info.Size()) {
			d.reserved[key] = info.Size()
		}
		d.sizes[key] = info.Size()
	}
	return nil
}

func encodeKeyFileName(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key)) + valueFileExt
}

func decodeKeyFileName(name string) (string, bool) {
	if !strings.HasSuffix(name, valueFileExt) {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSuffix(name, valueFileExt))
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.rootDir, encodeKeyFileName(key))
}

// Get returns the value stored under key.
func (d *Disk) Get(ctx context.Context, key string) ([]byte, error) {
	d.mu.Lock()
	_, ok := d.sizes[key]
	d.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	f, err := os.Open(d.path(key))
	if os.IsNotExist(err) {
		// File removed out from under the index.
		d.mu.Lock()
		d.forget(key)
		d.mu.Unlock()
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	// Read through the IO limiter so large values are metered in chunks
	// rather than charged in one burst.
	data := make([]byte, info.Size())
	if _, err := io.ReadFull(resource.NewRateLimitedReader(ctx, f, d.rc), data); err != nil {
		return nil, err
	}
	return data, nil
}

// forget drops key from the index and returns its reserved bytes, if any,
// to the quota. Caller holds d.mu.
func (d *Disk) forget(key string) {
	if r, ok := d.reserved[key]; ok {
		d.rc.Release(r)
		delete(d.reserved, key)
	}
	delete(d.sizes, key)
}

// Put stores value under key via a temp file and atomic rename.
func (d *Disk) Put(ctx context.Context, key string, value []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Account the delta against what this key actually reserved, which for a
	// pre-existing entry on an over-quota store can be less than its size.
	oldReserved := d.reserved[key]
	newSize := int64(len(value))
	if newSize > oldReserved {
		if !d.rc.TryReserve(newSize - oldReserved) {
			return ErrQuotaExceeded
		}
	}

	if err := d.writeAtomic(ctx, d.path(key), value); err != nil {
		if newSize > oldReserved {
			d.rc.Release(newSize - oldReserved)
		}
		return err
	}

	if oldReserved > newSize {
		d.rc.Release(oldReserved - newSize)
	}
	d.sizes[key] = newSize
	d.reserved[key] = newSize
	return nil
}

func (d *Disk) writeAtomic(ctx context.Context, path string, value []byte) error {
	tmp, err := os.CreateTemp(d.rootDir, "tmp-val-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	// Write through the IO limiter so large values are metered in chunks
	// rather than charged in one burst.
	if _, err := resource.NewRateLimitedWriter(ctx, tmp, d.rc).Write(value); err != nil {
		_ = tmp.Close()
		return err
	}
	if d.sync {
		if err := tmp.Sync(); err != nil {
			_ = tmp.Close()
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Delete removes the value stored under key.
func (d *Disk) Delete(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := os.Remove(d.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	d.forget(key)
	return nil
}

// List returns all keys with the given prefix, sorted.
func (d *Disk) List(_ context.Context, prefix string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var keys []string
	for key := range d.sizes {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; all writes are already durable on return from Put.
func (d *Disk) Close() error {
	return nil
}
