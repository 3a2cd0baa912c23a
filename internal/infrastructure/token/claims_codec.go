package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"helpdesk-gateway/internal/domain"
)

// msEpochCutoff separates second-scale from millisecond-scale timestamps.
// Some clients mint token_created_at in milliseconds; values above the cutoff
// are read as milliseconds. A second-scale timestamp past the year 33658
// would be misread, which is accepted.
const msEpochCutoff = 1e12

// ClaimsCodec encrypts and decrypts bearer credentials with AES-256-CBC.
// The key is the first 32 hex characters of the secret's SHA-512 digest,
// taken as raw bytes. Implements domain.ClaimsCodec.
type ClaimsCodec struct {
	key []byte
}

// NewClaimsCodec derives the AES key from the shared secret.
func NewClaimsCodec(secret string) *ClaimsCodec {
	digest := sha512.Sum512([]byte(secret))
	key := []byte(hex.EncodeToString(digest[:])[:32])
	return &ClaimsCodec{key: key}
}

// wireClaims mirrors the credential's JSON payload. Pointer fields make
// missing keys detectable.
type wireClaims struct {
	Email     *string      `json:"email"`
	CompanyID *int64       `json:"company_id"`
	IssuedAt  *json.Number `json:"token_created_at"`
	ExpiresIn *json.Number `json:"token_expires_in"`
}

// Decode decrypts a base64 credential and parses its claims. The credential
// is base64(IV || ciphertext) with a PKCS#7-padded JSON payload.
func (cc *ClaimsCodec) Decode(credential string) (*domain.Claims, error) {
	raw, err := base64.StdEncoding.DecodeString(credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedToken, err)
	}
	if len(raw) <= aes.BlockSize {
		return nil, fmt.Errorf("%w: too short for an IV and payload", domain.ErrMalformedToken)
	}

	iv, ciphertext := raw[:aes.BlockSize], raw[aes.BlockSize:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not block aligned", domain.ErrDecryptionFailed)
	}

	block, err := aes.NewCipher(cc.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecryptionFailed, err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	payload, err := unpad(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecryptionFailed, err)
	}

	return parseClaims(payload)
}

// Encode encrypts claims into a credential of the shape Decode accepts,
// with a fresh random IV.
func (cc *ClaimsCodec) Encode(claims *domain.Claims) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"email":            claims.Email,
		"company_id":       claims.CompanyID,
		"token_created_at": claims.IssuedAt,
		"token_expires_in": claims.ExpiresIn,
	})
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(cc.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	padded := pad(payload)
	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

func parseClaims(payload []byte) (*domain.Claims, error) {
	var w wireClaims
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidClaimFormat, err)
	}
	if w.Email == nil || w.CompanyID == nil || w.IssuedAt == nil || w.ExpiresIn == nil {
		return nil, fmt.Errorf("%w: missing required claim", domain.ErrInvalidClaimFormat)
	}

	issuedAt, err := w.IssuedAt.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: token_created_at: %w", domain.ErrInvalidClaimFormat, err)
	}
	expiresIn, err := w.ExpiresIn.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: token_expires_in: %w", domain.ErrInvalidClaimFormat, err)
	}

	if issuedAt > msEpochCutoff {
		issuedAt /= 1000
	}

	return &domain.Claims{
		Email:     *w.Email,
		CompanyID: *w.CompanyID,
		IssuedAt:  int64(issuedAt),
		ExpiresIn: int64(expiresIn),
	}, nil
}

// pad appends PKCS#7 padding up to the AES block size.
func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// unpad strips PKCS#7 padding, rejecting inconsistent tails.
func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("empty plaintext")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, errors.New("bad padding length")
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errors.New("inconsistent padding")
		}
	}
	return b[:len(b)-n], nil
}
