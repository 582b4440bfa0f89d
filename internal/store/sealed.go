package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// ErrDecrypt is returned when a sealed record cannot be opened.
var ErrDecrypt = errors.New("failed to decrypt record")

// Sealed encrypts values at rest before handing them to the wrapped KV.
type Sealed struct {
	kv  KV
	key [keySize]byte
}

var _ KV = (*Sealed)(nil)

// NewSealed wraps kv with secretbox encryption under key.
func NewSealed(kv KV, key [keySize]byte) *Sealed {
	return &Sealed{kv: kv, key: key}
}

// Get opens the record stored under key.
func (s *Sealed) Get(ctx context.Context, key string) ([]byte, error) {
	box, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(box) < nonceSize+secretbox.Overhead {
		return nil, ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// Put seals value with a fresh nonce and stores it under key.
func (s *Sealed) Put(ctx context.Context, key string, value []byte) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], value, &nonce, &s.key)
	return s.kv.Put(ctx, key, box)
}

// Delete removes the record under key.
func (s *Sealed) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, key)
}

// Close closes the wrapped KV.
func (s *Sealed) Close() error {
	return s.kv.Close()
}

// LoadOrCreateKey reads the encryption key at path, generating it on first use.
func LoadOrCreateKey(path string) ([keySize]byte, error) {
	var key [keySize]byte
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != keySize {
			return key, fmt.Errorf("key file %s has %d bytes, expected %d", path, len(data), keySize)
		}
		copy(key[:], data)
		return key, nil
	}
	if !os.IsNotExist(err) {
		return key, fmt.Errorf("failed to read key file: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return key, fmt.Errorf("failed to generate key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return key, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(path, key[:], 0o600); err != nil {
		return key, fmt.Errorf("failed to write key file: %w", err)
	}
	return key, nil
}
