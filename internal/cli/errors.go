package cli

import (
	"errors"
	"fmt"
	"net/http"

	"folio-cli/internal/api"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type signedOutError struct{}

func (signedOutError) Error() string {
	return "not signed in; run `folio login --email <email>`"
}

// apiErr maps server errors onto CLI errors: 404 becomes notFoundError and a lost session
// gets a login hint.
func apiErr(err error, kind, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return signedOutError{}
	}
	var ae *api.APIError
	if id != "" && errors.As(err, &ae) && ae.Status == http.StatusNotFound {
		return errNotFound(kind, id)
	}
	return err
}
