// Package wallet derives the demo address and signature material the UI
// displays. Keys never leave the process; the device is air-gapped.
package wallet

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const addressPrefix = "bc1q"

var ErrEmptySeed = errors.New("wallet: seed is empty")

// Wallet holds the derived key material for one seed.
type Wallet struct {
	signingKey []byte
	address    string
}

// New derives a wallet from a seed using HKDF-SHA256. The same seed
// always yields the same address, which the display tests rely on.
func New(seed []byte) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}

	sk, err := derive(seed, "signing-key", 32)
	if err != nil {
		return nil, fmt.Errorf("derive signing key: %w", err)
	}
	ak, err := derive(seed, "address-key", 20)
	if err != nil {
		return nil, fmt.Errorf("derive address key: %w", err)
	}

	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	addr := addressPrefix + strings.ToLower(enc.EncodeToString(ak))

	return &Wallet{signingKey: sk, address: addr}, nil
}

func derive(seed []byte, info string, n int) ([]byte, error) {
	hk := hkdf.New(sha256.New, seed, nil, []byte(info))
	out := make([]byte, n)
	if _, err := io.ReadFull(hk, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Address returns the display address for this wallet.
func (w *Wallet) Address() string { return w.address }

// Sign produces a hex-encoded HMAC-SHA256 tag over the message.
func (w *Wallet) Sign(message []byte) string {
	mac := hmac.New(sha256.New, w.signingKey)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a hex-encoded tag against the message in constant time.
func (w *Wallet) Verify(message []byte, signature string) bool {
	want, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, w.signingKey)
	mac.Write(message)
	return hmac.Equal(mac.Sum(nil), want)
}
