package models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// CredentialStorageKey is the fixed name under which the session credential is persisted.
const CredentialStorageKey string = "insurance_auth"

// UserIdentity is the user information returned by the backend on login.
type UserIdentity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	UserID   int64  `json:"userId"`
}

// SessionCredential is the bearer token of the logged in user together with the user identity.
type SessionCredential struct {
	Token    string
	Username string
	Role     Role
	UserID   int64
	StoredAt time.Time
}

func NewSessionCredential(token string, identity UserIdentity) SessionCredential {
	return SessionCredential{
		Token:    token,
		Username: identity.Username,
		Role:     identity.Role,
		UserID:   identity.UserID,
		StoredAt: time.Now().UTC(),
	}
}

func (s SessionCredential) Identity() UserIdentity {
	return UserIdentity{Username: s.Username, Role: s.Role, UserID: s.UserID}
}

// WithToken returns a copy of the credential holding a new token, the identity is kept.
func (s SessionCredential) WithToken(token string) SessionCredential {
	output := s
	output.Token = token
	output.StoredAt = time.Now().UTC()
	return output
}

func (s SessionCredential) Empty() bool {
	return s.Token == ""
}

// Validate checks that a credential read back from storage is usable.
func (s SessionCredential) Validate() error {
	if s.Token == "" {
		return fmt.Errorf("the credential has no token")
	}
	if s.Username == "" {
		return fmt.Errorf("the credential has no username")
	}
	return s.Role.Validate()
}

// Encrypt encrypts the token value if an encryptor is provided
func (s SessionCredential) Encrypt(enc Encryptor) (SessionCredential, error) {
	if enc == nil {
		return s, nil
	}
	encValue, err := enc.Encrypt(s.Token)
	if err != nil {
		return SessionCredential{}, err
	}
	output := s
	output.Token = encValue
	return output, nil
}

// Decrypt decrypts the token value if an encryptor is provided
func (s SessionCredential) Decrypt(enc Encryptor) (SessionCredential, error) {
	if enc == nil {
		return s, nil
	}
	decValue, err := enc.Decrypt(s.Token)
	if err != nil {
		return SessionCredential{}, err
	}
	output := s
	output.Token = decValue
	return output, nil
}

// ExpiresAt reads the expiry of the token when the token is a JWT. The signature is not verified,
// verification is up to the backend.
func (s SessionCredential) ExpiresAt() (time.Time, bool) {
	claims, err := ParseTokenClaims(s.Token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ExpiresSoon returns true when the token is a JWT whose expiry falls within the margin.
func (s SessionCredential) ExpiresSoon(margin time.Duration) bool {
	expiresAt, ok := s.ExpiresAt()
	if !ok {
		return false
	}
	return time.Now().Add(margin).After(expiresAt)
}

// String implements the Stringer interface for printing the credential in logs
func (s SessionCredential) String() string {
	return fmt.Sprintf(
		"SessionCredential<Token: redacted, Username: %s, Role: %s, UserID: %d, StoredAt: %s>",
		s.Username,
		s.Role,
		s.UserID,
		s.StoredAt,
	)
}

// TokenClaims are the claims the backend puts in its access tokens.
type TokenClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseTokenClaims decodes the claims of a JWT without checking the signature.
func ParseTokenClaims(token string) (TokenClaims, error) {
	claims := TokenClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return TokenClaims{}, err
	}
	return claims, nil
}
