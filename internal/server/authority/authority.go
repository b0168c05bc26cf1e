// Package authority derives the signing identity that controls a locker's
// vault. The identity is a pure function of a server secret, the locker ID
// and a per-locker bump, so it is recomputed on every use and never accepted
// from a caller.
package authority

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"golang.org/x/crypto/hkdf"
)

const (
	keySize = 32
	// Prefix marks derived identities. Callers carrying it are refused.
	Prefix = "pda:"
)

var vaultLabel = []byte("gophlocker/vault")

var ErrEmptySecret = errors.New("authority secret must not be empty")

type Deriver struct {
	secret []byte
}

func NewDeriver(secret []byte) (*Deriver, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	s := make([]byte, len(secret))
	copy(s, secret)
	return &Deriver{secret: s}, nil
}

// Derive returns the vault authority for lockerID and bump.
func (d *Deriver) Derive(lockerID string, bump uint8) (string, error) {
	info := make([]byte, 0, len(vaultLabel)+1)
	info = append(info, vaultLabel...)
	info = append(info, bump)

	key := make([]byte, keySize)
	defer common.WipeByteArray(key)

	if _, err := io.ReadFull(hkdf.New(sha256.New, d.secret, []byte(lockerID), info), key); err != nil {
		return "", err
	}
	return Prefix + hex.EncodeToString(key), nil
}

// Verify recomputes the authority and compares it with stored in constant time.
func (d *Deriver) Verify(lockerID string, bump uint8, stored string) error {
	want, err := d.Derive(lockerID, bump)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(want), []byte(stored)) {
		return common.ErrAuthorityMismatch
	}
	return nil
}

// IsDerived reports whether id is a derived vault identity.
func IsDerived(id string) bool {
	return strings.HasPrefix(id, Prefix)
}

// NewBump picks a fresh bump for a new vault.
func NewBump() uint8 {
	return common.RandByte()
}
