package services

import (
	"crypto/rand"
	"encoding/hex"
)

const tokenBytes = 8

// TokenGenerator produces opaque device tokens. It is injected so tests can
// substitute a deterministic source.
type TokenGenerator interface {
	Generate() (string, error)
}

// CryptoTokenGenerator draws from the operating system's secure random
// source; tokens are 16 hex characters.
type CryptoTokenGenerator struct{}

func NewCryptoTokenGenerator() CryptoTokenGenerator {
	return CryptoTokenGenerator{}
}

func (CryptoTokenGenerator) Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
