// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package writer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// FSBlobStore is a BlobStore backed by the local filesystem, addressing
// blobs by the hex SHA-256 of their content. Suitable for local/docker
// deployment profiles; production deployments swap in an object-store
// implementation of the same interface without any caller changes.
type FSBlobStore struct {
	root string
}

// NewFSBlobStore returns a BlobStore rooted at dir, creating it if absent.
func NewFSBlobStore(dir string) (*FSBlobStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("writer: creating blob root: %w", err)
	}
	return &FSBlobStore{root: dir}, nil
}

// Put writes data under its content hash and returns that hash as the
// locator. Writing the same content twice is a safe no-op.
func (f *FSBlobStore) Put(_ context.Context, data []byte) (string, error) {
	sum := sha256.Sum256(data)
	locator := hex.EncodeToString(sum[:])
	path := f.path(locator)

	if _, err := os.Stat(path); err == nil {
		return locator, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("writer: preparing blob directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("writer: writing blob: %w", err)
	}
	return locator, nil
}

// Get reads back the bytes stored at locator.
func (f *FSBlobStore) Get(_ context.Context, locator string) ([]byte, error) {
	data, err := os.ReadFile(f.path(locator))
	if err != nil {
		return nil, fmt.Errorf("writer: reading blob %s: %w", locator, err)
	}
	return data, nil
}

// path shards blobs two levels deep by locator prefix to keep any single
// directory from growing unbounded.
func (f *FSBlobStore) path(locator string) string {
	if len(locator) < 4 {
		return filepath.Join(f.root, locator)
	}
	return filepath.Join(f.root, locator[:2], locator[2:4], locator)
}
