package handler

import (
	"net/http"
	"testing"

	"helpdesk-gateway/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPartnerHandler(partners *stubPartnerStore) *PartnerHandler {
	return NewPartnerHandler(
		usecase.NewRegisterPartner(partners),
		usecase.NewUpdatePartnerEmail(partners, testingLogger()),
	)
}

func TestPartnerHandler_Register(t *testing.T) {
	partners := &stubPartnerStore{registerID: 42}
	h := newPartnerHandler(partners)

	c, rec := newContext(t, http.MethodPost, "/v1/partners", `{"email":"new@example.com"}`)
	authenticate(c)

	err := h.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":42}`, rec.Body.String())
}

func TestPartnerHandler_Register_InvalidEmail(t *testing.T) {
	h := newPartnerHandler(&stubPartnerStore{})

	c, _ := newContext(t, http.MethodPost, "/v1/partners", `{"email":"not-an-address"}`)
	authenticate(c)

	assertHTTPError(t, h.Register(c), http.StatusBadRequest)
}

func TestPartnerHandler_UpdateEmail(t *testing.T) {
	partners := &stubPartnerStore{}
	h := newPartnerHandler(partners)

	c, rec := newContext(t, http.MethodPut, "/v1/partners/email",
		`{"email":"old@example.com","newEmail":"new@example.com"}`)
	authenticate(c)

	err := h.UpdateEmail(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "old@example.com", partners.updatedEmail)
	assert.Equal(t, "new@example.com", partners.updatedNew)
	assert.Equal(t, int64(3), partners.updatedCompany, "company comes from the claims")
}
