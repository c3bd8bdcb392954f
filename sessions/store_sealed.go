package sessions

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var errUnsealable = errors.New("sealed value cannot be opened")

// SealedStore encrypts the bearer token before it reaches the wrapped store.
// Other keys pass through untouched.
type SealedStore struct {
	Store
	key [32]byte
}

var _ Store = (*SealedStore)(nil)

// NewSealedStore derives a secretbox key from secret
func NewSealedStore(inner Store, secret string) *SealedStore {
	return &SealedStore{
		Store: inner,
		key:   sha256.Sum256([]byte(secret)),
	}
}

func (s *SealedStore) Get(ctx context.Context, browserID string, key Key) (string, bool, error) {
	value, ok, err := s.Store.Get(ctx, browserID, key)
	if err != nil || !ok || key != KeyToken {
		return value, ok, err
	}
	opened, err := s.open(value)
	if err != nil {
		// Sealed with another secret; treat the token as absent
		return "", false, nil
	}
	return opened, true, nil
}

func (s *SealedStore) Set(ctx context.Context, browserID string, key Key, value string) error {
	if key != KeyToken {
		return s.Store.Set(ctx, browserID, key, value)
	}
	sealed, err := s.seal(value)
	if err != nil {
		return fmt.Errorf("[sessions SealedStore.Set]: %w", err)
	}
	return s.Store.Set(ctx, browserID, key, sealed)
}

func (s *SealedStore) seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

func (s *SealedStore) open(sealed string) (string, error) {
	box, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(box) < nonceSize {
		return "", errUnsealable
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", errUnsealable
	}
	return string(plain), nil
}
