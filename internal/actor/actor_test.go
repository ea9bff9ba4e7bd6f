package actor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"barberbook/pkg/client"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(userID, role string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != "" {
		r.Header.Set(client.HeaderUserID, userID)
	}
	if role != "" {
		r.Header.Set(client.HeaderUserRole, role)
	}
	return r
}

func TestFromRequest(t *testing.T) {
	a, err := FromRequest(request("cust-1", "Customer"))
	require.NoError(t, err)
	assert.Equal(t, model.Actor{UserID: "cust-1", Role: model.RoleCustomer}, a)

	_, err = FromRequest(request("", "customer"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, err = FromRequest(request("u", "admin"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestRequire(t *testing.T) {
	_, err := Require(request("b1", "provider"), model.RoleCustomer)
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode())

	a, err := Require(request("b1", "provider"), model.RoleCustomer, model.RoleProvider)
	require.NoError(t, err)
	assert.Equal(t, model.RoleProvider, a.Role)
}
