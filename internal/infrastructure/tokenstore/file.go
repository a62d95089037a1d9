package tokenstore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/accesosen/sadi-client/internal/core/domain"
)

const (
	saltLen = 16
	keyLen  = 32

	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 1
)

// File keeps the token pair in a single sealed blob on disk. Layout:
// salt(16) || nonce(24) || XChaCha20-Poly1305(ciphertext). The key is
// derived from the passphrase with argon2id per write, so rotating the
// passphrase invalidates old blobs instead of corrupting them.
//
// All methods are best-effort: reads return "" on any failure (missing
// file, wrong passphrase, truncated blob) and never propagate errors to
// callers that only want the current token.
type File struct {
	mu         sync.Mutex
	path       string
	passphrase []byte
}

func NewFile(path, passphrase string) *File {
	return &File{path: path, passphrase: []byte(passphrase)}
}

func (f *File) Save(_ context.Context, access, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	plain, err := json.Marshal(domain.Tokens{Access: access, Refresh: refresh})
	if err != nil {
		return err
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(f.deriveKey(salt))
	if err != nil {
		return err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	blob := make([]byte, 0, saltLen+len(nonce)+len(plain)+aead.Overhead())
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, aead.Seal(nil, nonce, plain, nil)...)

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	// Atomic replace: a crash mid-write must never leave a half pair.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *File) Access(ctx context.Context) string {
	t := f.read()
	if t == nil {
		return ""
	}
	return t.Access
}

func (f *File) Refresh(ctx context.Context) string {
	t := f.read()
	if t == nil {
		return ""
	}
	return t.Refresh
}

func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *File) read() *domain.Tokens {
	f.mu.Lock()
	defer f.mu.Unlock()

	blob, err := os.ReadFile(f.path)
	if err != nil {
		return nil
	}
	if len(blob) < saltLen+chacha20poly1305.NonceSizeX {
		return nil
	}
	salt := blob[:saltLen]
	nonce := blob[saltLen : saltLen+chacha20poly1305.NonceSizeX]
	ct := blob[saltLen+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(f.deriveKey(salt))
	if err != nil {
		return nil
	}
	plain, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil
	}

	var t domain.Tokens
	if err := json.Unmarshal(plain, &t); err != nil {
		return nil
	}
	if t.Access == "" || t.Refresh == "" {
		// A partial pair is treated as absent.
		return nil
	}
	return &t
}

func (f *File) deriveKey(salt []byte) []byte {
	return argon2.IDKey(f.passphrase, salt, argonTime, argonMemory, argonThreads, keyLen)
}
