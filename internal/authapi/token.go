package authapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpiry reads the exp claim of the access token without
// verifying its signature.  The page only logs it; trust decisions belong
// to the service that issued the token.  ok is false when there is no token
// or it carries no exp claim.
func (u *User) AccessTokenExpiry() (exp time.Time, ok bool) {
	if u == nil || u.AccessToken == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(u.AccessToken, claims); err != nil {
		return time.Time{}, false
	}
	nd, err := claims.GetExpirationTime()
	if err != nil || nd == nil {
		return time.Time{}, false
	}
	return nd.Time, true
}
