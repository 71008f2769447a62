// Package auth answers the single authorization question this bot has:
// is the caller the administrator.
package auth

type Authorizer struct {
	adminID int64
}

func NewAuthorizer(adminID int64) *Authorizer {
	return &Authorizer{adminID: adminID}
}

func (a *Authorizer) IsAdmin(userID int64) bool {
	return userID == a.adminID
}
