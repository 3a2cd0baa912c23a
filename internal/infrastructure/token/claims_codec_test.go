package token

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"helpdesk-gateway/internal/domain"

	"github.com/stretchr/testify/assert"
)

// encryptRaw encrypts an already padded plaintext with the codec's key and a
// fixed IV, so tests can hand Decode arbitrary payloads.
func encryptRaw(t *testing.T, cc *ClaimsCodec, padded []byte) string {
	t.Helper()

	block, err := aes.NewCipher(cc.key)
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}

	iv := bytes.Repeat([]byte{0x24}, aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return base64.StdEncoding.EncodeToString(out)
}

func encryptPayload(t *testing.T, cc *ClaimsCodec, payload string) string {
	t.Helper()
	return encryptRaw(t, cc, pad([]byte(payload)))
}

func TestClaimsCodec_RoundTrip(t *testing.T) {
	cc := NewClaimsCodec("s3cr3t")

	want := &domain.Claims{
		Email:     "user@example.com",
		CompanyID: 7,
		IssuedAt:  time.Now().Unix(),
		ExpiresIn: 30,
	}

	credential, err := cc.Encode(want)
	assert.NoError(t, err)
	assert.NotEmpty(t, credential)

	got, err := cc.Decode(credential)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClaimsCodec_KeyDerivation(t *testing.T) {
	cc := NewClaimsCodec("s3cr3t")

	digest := sha512.Sum512([]byte("s3cr3t"))
	want := []byte(hex.EncodeToString(digest[:])[:32])

	assert.Len(t, cc.key, 32)
	assert.Equal(t, want, cc.key)
}

func TestClaimsCodec_FreshIVPerEncode(t *testing.T) {
	cc := NewClaimsCodec("s3cr3t")
	claims := &domain.Claims{Email: "user@example.com", CompanyID: 1, IssuedAt: 1700000000, ExpiresIn: 30}

	first, err := cc.Encode(claims)
	assert.NoError(t, err)
	second, err := cc.Encode(claims)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)

	for _, credential := range []string{first, second} {
		got, err := cc.Decode(credential)
		assert.NoError(t, err)
		assert.Equal(t, claims, got)
	}
}

func TestClaimsCodec_MillisecondCreationTime(t *testing.T) {
	cc := NewClaimsCodec("s3cr3t")

	credential := encryptPayload(t, cc,
		`{"email":"user@example.com","company_id":3,"token_created_at":1700000000123,"token_expires_in":30}`)

	got, err := cc.Decode(credential)
	assert.NoError(t, err)
	assert.Equal(t, int64(1700000000), got.IssuedAt)
	assert.Equal(t, int64(30), got.ExpiresIn)
}

func TestClaimsCodec_InvalidPayloads(t *testing.T) {
	cc := NewClaimsCodec("s3cr3t")

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `this is not json`},
		{"missing email", `{"company_id":3,"token_created_at":1700000000,"token_expires_in":30}`},
		{"missing company", `{"email":"a@b.co","token_created_at":1700000000,"token_expires_in":30}`},
		{"missing creation time", `{"email":"a@b.co","company_id":3,"token_expires_in":30}`},
		{"missing lifetime", `{"email":"a@b.co","company_id":3,"token_created_at":1700000000}`},
		{"email not a string", `{"email":12,"company_id":3,"token_created_at":1700000000,"token_expires_in":30}`},
		{"company not an integer", `{"email":"a@b.co","company_id":"3","token_created_at":1700000000,"token_expires_in":30}`},
		{"creation time not a number", `{"email":"a@b.co","company_id":3,"token_created_at":"then","token_expires_in":30}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cc.Decode(encryptPayload(t, cc, tt.payload))
			assert.ErrorIs(t, err, domain.ErrInvalidClaimFormat)
		})
	}
}

func TestClaimsCodec_RejectsBadInput(t *testing.T) {
	cc := NewClaimsCodec("s3cr3t")

	tests := []struct {
		name       string
		credential string
		want       error
	}{
		{"empty", "", domain.ErrMalformedToken},
		{"not base64", "%%%not-base64%%%", domain.ErrMalformedToken},
		{"shorter than an IV", base64.StdEncoding.EncodeToString(make([]byte, 10)), domain.ErrMalformedToken},
		{"IV with no payload", base64.StdEncoding.EncodeToString(make([]byte, 16)), domain.ErrMalformedToken},
		{"misaligned ciphertext", base64.StdEncoding.EncodeToString(make([]byte, 24)), domain.ErrDecryptionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cc.Decode(tt.credential)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClaimsCodec_BadPadding(t *testing.T) {
	cc := NewClaimsCodec("s3cr3t")

	payload := []byte(`{"email":"a@b.co","company_id":3,"token_created_at":1700000000,"token_expires_in":30}`)

	zeroTail := pad(payload)
	zeroTail[len(zeroTail)-1] = 0x00

	oversized := pad(payload)
	oversized[len(oversized)-1] = 0x20

	inconsistent := pad(payload)
	inconsistent[len(inconsistent)-1] = 0x02
	inconsistent[len(inconsistent)-2] = 0x07

	for name, padded := range map[string][]byte{
		"zero length tail":        zeroTail,
		"length above block size": oversized,
		"inconsistent tail bytes": inconsistent,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := cc.Decode(encryptRaw(t, cc, padded))
			assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
		})
	}
}

func TestClaimsCodec_WrongSecret(t *testing.T) {
	minter := NewClaimsCodec("s3cr3t")
	reader := NewClaimsCodec("a-different-secret")

	credential, err := minter.Encode(&domain.Claims{
		Email: "user@example.com", CompanyID: 1, IssuedAt: 1700000000, ExpiresIn: 30,
	})
	assert.NoError(t, err)

	_, err = reader.Decode(credential)
	assert.Error(t, err)
	assert.True(t,
		errors.Is(err, domain.ErrDecryptionFailed) || errors.Is(err, domain.ErrInvalidClaimFormat),
		"wrong key must surface as a credential error, got %v", err)
}

func TestClaimsCodec_TamperedCiphertext(t *testing.T) {
	cc := NewClaimsCodec("s3cr3t")

	credential, err := cc.Encode(&domain.Claims{
		Email: "user@example.com", CompanyID: 1, IssuedAt: 1700000000, ExpiresIn: 30,
	})
	assert.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(credential)
	assert.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = cc.Decode(base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
	assert.True(t,
		errors.Is(err, domain.ErrDecryptionFailed) || errors.Is(err, domain.ErrInvalidClaimFormat),
		"tampering must surface as a credential error, got %v", err)
}
