package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer produces the request signature for the futures REST API.
// Keys are stored as []byte so they can be wiped from memory.
type Signer struct {
	apiKey    []byte
	apiSecret []byte
}

// NewSigner creates a new signer.
func NewSigner(apiKey, apiSecret string) *Signer {
	return &Signer{
		apiKey:    []byte(apiKey),
		apiSecret: []byte(apiSecret),
	}
}

// APIKey returns the key sent in the X-MBX-APIKEY header.
func (s *Signer) APIKey() string {
	return string(s.apiKey)
}

// Sign computes the hex HMAC-SHA256 of the encoded query string, which
// the exchange expects as the trailing `signature` parameter.
func (s *Signer) Sign(queryString string) string {
	mac := hmac.New(sha256.New, s.apiSecret)
	mac.Write([]byte(queryString))
	return hex.EncodeToString(mac.Sum(nil))
}

// Wipe clears the key material from memory.
func (s *Signer) Wipe() {
	if s == nil {
		return
	}
	wipeSlice(s.apiKey)
	wipeSlice(s.apiSecret)
}

func wipeSlice(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
