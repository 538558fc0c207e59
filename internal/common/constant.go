// Package common contains shared constants and sentinel errors used across
// the jobboard server components.
package common

// AuthorizationHeaderName carries the bearer token on protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only accepted Authorization scheme. It is also the
// token_type returned by the login endpoint.
const BearerScheme = "bearer"

// DefaultLanguage is used when a request names no language or one that has
// no translations.
const DefaultLanguage = "en"

// SupportedLanguages lists language codes that job translations may use.
var SupportedLanguages = map[string]struct{}{
	"en": {}, "lv": {}, "lt": {}, "pl": {}, "ru": {}, "ee": {},
}
