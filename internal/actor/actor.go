// Package actor resolves the caller of an HTTP request. Authentication is
// performed upstream; the gateway forwards the verified identity in headers.
package actor

import (
	"net/http"
	"strings"

	"barberbook/pkg/client"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/model"
)

func FromRequest(r *http.Request) (model.Actor, error) {
	userID := strings.TrimSpace(r.Header.Get(client.HeaderUserID))
	if userID == "" {
		return model.Actor{}, apperrors.Unauthorized("missing " + client.HeaderUserID + " header")
	}

	role := model.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(client.HeaderUserRole))))
	if !role.Valid() {
		return model.Actor{}, apperrors.Unauthorized("invalid " + client.HeaderUserRole + " header")
	}

	return model.Actor{UserID: userID, Role: role}, nil
}

// Require resolves the actor and checks it holds one of roles.
func Require(r *http.Request, roles ...model.Role) (model.Actor, error) {
	a, err := FromRequest(r)
	if err != nil {
		return model.Actor{}, err
	}
	if err := RequireRole(a, roles...); err != nil {
		return model.Actor{}, err
	}
	return a, nil
}

func RequireRole(a model.Actor, roles ...model.Role) error {
	for _, role := range roles {
		if a.Role == role {
			return nil
		}
	}
	return apperrors.Forbidden("role " + string(a.Role) + " may not perform this operation")
}
