package testutil

import (
	"net/http"

	id "talentlink/pkg/domain"
	"talentlink/pkg/requestcontext"
)

// AsUser attaches the state the auth middleware leaves for an authenticated caller.
func AsUser(req *http.Request, userID id.UserID, role id.Role) *http.Request {
	return req.WithContext(requestcontext.WithAuth(req.Context(), userID, role))
}
