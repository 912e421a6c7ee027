// Command portalctl is a command line client for the insurance portal API.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/capstone-insurance/portal/internal/gwerrors"
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, gwerrors.ErrSessionExpired):
		fmt.Fprintln(os.Stderr, "session expired, please log in again")
	case errors.Is(err, errNotLoggedIn):
		fmt.Fprintln(os.Stderr, "not logged in, run \"portalctl login\" first")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
