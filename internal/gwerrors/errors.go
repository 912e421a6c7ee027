// Package gwerrors contains all common errors used by the portal.
package gwerrors

import "fmt"

var ErrCredentialNotFound = fmt.Errorf("no stored session credential")
var ErrInvalidCredential = fmt.Errorf("the stored session credential is malformed")
var ErrSessionExpired = fmt.Errorf("the session is expired, please log in again")
var ErrMissingDBResource = fmt.Errorf("the requested resource cannot be found in the DB")
var ErrNotFound = fmt.Errorf("the requested resource cannot be found")
var ErrForbidden = fmt.Errorf("the current user is not allowed to access this resource")
