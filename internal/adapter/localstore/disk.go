package localstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/siron93/moms-app/internal/domain"
)

// segmentSep splits keys into directory levels, so every key sharing a
// "<namespace>:<subject>:" prefix lives under one directory.
const segmentSep = ":"

// Disk is a KV persisted as one file per key under a base directory, with
// an in-memory read cache.
type Disk struct {
	d *diskv.Diskv
}

// OpenDisk opens (creating on first write) a store rooted at dir.
// cacheBytes bounds the in-memory read cache; 0 disables it.
func OpenDisk(dir string, cacheBytes uint64) *Disk {
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:          dir,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      cacheBytes,
	})}
}

// Get returns the value stored under key, or an error wrapping
// domain.ErrNotFound when there is none.
func (s *Disk) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("key %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("localstore: read %s: %w", key, err)
	}
	return val, nil
}

// Set stores val under key, replacing any previous value.
func (s *Disk) Set(ctx context.Context, key string, val []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return domain.NewValidationError("key", "required")
	}
	if err := s.d.Write(key, val); err != nil {
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Disk) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("localstore: erase %s: %w", key, err)
	}
	return nil
}

// ListKeys returns the keys starting with prefix, sorted.
func (s *Disk) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range s.d.KeysPrefix(prefix, ctx.Done()) {
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}

// keyToPath maps "a:b:c" to directories a/b and file c. Segments are
// base64url-encoded behind a marker byte so that any key, including empty
// segments, yields valid file names. A key must not equal a directory
// prefix of another key.
func keyToPath(key string) *diskv.PathKey {
	parts := strings.Split(key, segmentSep)
	enc := make([]string, len(parts))
	for i, p := range parts {
		enc[i] = encodeSegment(p)
	}
	return &diskv.PathKey{
		Path:     enc[:len(enc)-1],
		FileName: enc[len(enc)-1],
	}
}

func pathToKey(pk *diskv.PathKey) string {
	parts := make([]string, 0, len(pk.Path)+1)
	for _, p := range pk.Path {
		parts = append(parts, decodeSegment(p))
	}
	parts = append(parts, decodeSegment(pk.FileName))
	return strings.Join(parts, segmentSep)
}

func encodeSegment(s string) string {
	return "k" + base64.RawURLEncoding.EncodeToString([]byte(s))
}

// decodeSegment returns "" for names this store did not write.
func decodeSegment(s string) string {
	raw, ok := strings.CutPrefix(s, "k")
	if !ok {
		return ""
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return ""
	}
	return string(b)
}
