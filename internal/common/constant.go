package common

// AccessTokenCookieName is the cookie that carries the short-lived JWT.
const AccessTokenCookieName = "access_token"

// RefreshTokenCookieName is the cookie that carries the opaque refresh token.
const RefreshTokenCookieName = "refresh_token"
