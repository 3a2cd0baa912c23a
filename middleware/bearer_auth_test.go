package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"helpdesk-gateway/internal/domain"
	"helpdesk-gateway/internal/infrastructure/token"
	"helpdesk-gateway/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier implements domain.CustomerVerifier for testing.
type fakeVerifier struct {
	verified bool
	err      error
}

func (f *fakeVerifier) VerifyCustomer(_ context.Context, _ string, _ int64) (bool, error) {
	return f.verified, f.err
}

// fakeCache implements domain.VerificationCache for testing.
type fakeCache struct {
	entries map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]bool)}
}

func (f *fakeCache) Get(email string, _ int64) (bool, bool) {
	verified, found := f.entries[email]
	return verified, found
}

func (f *fakeCache) Set(email string, _ int64, verified bool) {
	f.entries[email] = verified
}

func newGate(t *testing.T, verifier *fakeVerifier) (*token.ClaimsCodec, echo.MiddlewareFunc) {
	t.Helper()
	codec := token.NewClaimsCodec("test-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authorize := usecase.NewAuthorize(codec, newFakeCache(), verifier, logger)
	return codec, BearerAuth(authorize)
}

func mint(t *testing.T, codec *token.ClaimsCodec, issuedAt int64) string {
	t.Helper()
	credential, err := codec.Encode(&domain.Claims{
		Email:     "jess@example.com",
		CompanyID: 3,
		IssuedAt:  issuedAt,
		ExpiresIn: 30,
	})
	require.NoError(t, err)
	return credential
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authorization string) (*domain.Claims, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/tickets", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *domain.Claims
	handler := func(c echo.Context) error {
		seen, _ = domain.ClaimsFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}
	err := mw(handler)(c)
	return seen, err
}

func assertUnauthorized(t *testing.T, err error, message string) {
	t.Helper()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, message, httpErr.Message)
}

func TestBearerAuth_AllowsVerifiedCustomer(t *testing.T) {
	codec, mw := newGate(t, &fakeVerifier{verified: true})

	claims, err := invoke(t, mw, "Bearer "+mint(t, codec, time.Now().Unix()))

	require.NoError(t, err)
	require.NotNil(t, claims, "claims must reach the handler")
	assert.Equal(t, "jess@example.com", claims.Email)
	assert.Equal(t, int64(3), claims.CompanyID)
}

func TestBearerAuth_SchemeIsCaseInsensitive(t *testing.T) {
	codec, mw := newGate(t, &fakeVerifier{verified: true})

	claims, err := invoke(t, mw, "bearer "+mint(t, codec, time.Now().Unix()))

	require.NoError(t, err)
	assert.NotNil(t, claims)
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	_, mw := newGate(t, &fakeVerifier{verified: true})

	_, err := invoke(t, mw, "")

	assertUnauthorized(t, err, "missing bearer credential")
}

func TestBearerAuth_EmptyCredential(t *testing.T) {
	_, mw := newGate(t, &fakeVerifier{verified: true})

	_, err := invoke(t, mw, "Bearer   ")

	assertUnauthorized(t, err, "missing bearer credential")
}

func TestBearerAuth_WrongScheme(t *testing.T) {
	_, mw := newGate(t, &fakeVerifier{verified: true})

	_, err := invoke(t, mw, "Basic dXNlcjpwYXNz")

	assertUnauthorized(t, err, "missing bearer credential")
}

func TestBearerAuth_GarbageToken(t *testing.T) {
	_, mw := newGate(t, &fakeVerifier{verified: true})

	_, err := invoke(t, mw, "Bearer not-a-token")

	assertUnauthorized(t, err, "invalid token")
}

func TestBearerAuth_ExpiredToken(t *testing.T) {
	codec, mw := newGate(t, &fakeVerifier{verified: true})

	_, err := invoke(t, mw, "Bearer "+mint(t, codec, time.Now().Add(-2*time.Hour).Unix()))

	assertUnauthorized(t, err, "token expired")
}

func TestBearerAuth_UnverifiedCustomer(t *testing.T) {
	codec, mw := newGate(t, &fakeVerifier{verified: false})

	_, err := invoke(t, mw, "Bearer "+mint(t, codec, time.Now().Unix()))

	assertUnauthorized(t, err, "unable to verify customer")
}

func TestBearerAuth_DirectoryOutageIsUnauthorized(t *testing.T) {
	codec, mw := newGate(t, &fakeVerifier{err: domain.ErrOdooUnavailable})

	_, err := invoke(t, mw, "Bearer "+mint(t, codec, time.Now().Unix()))

	assertUnauthorized(t, err, "unable to verify customer")
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"standard", "Bearer abc123", "abc123", true},
		{"lowercase scheme", "bearer abc123", "abc123", true},
		{"extra spaces around credential", "Bearer   abc123  ", "abc123", true},
		{"empty header", "", "", false},
		{"scheme only", "Bearer", "", false},
		{"scheme with empty credential", "Bearer ", "", false},
		{"wrong scheme", "Basic abc123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractBearer(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
