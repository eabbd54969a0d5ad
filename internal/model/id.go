package model

import (
	"fmt"

	"github.com/google/uuid"
)

// NormalizeID accepts a Notion id in dashed or compact form and returns the
// canonical dashed form.
func NormalizeID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return u.String(), nil
}
