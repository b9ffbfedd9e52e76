// Package service implements the group, list and item managers.
//
// Every mutating operation runs inside one storage unit of work and
// checks the caller's role against rows read in that same transaction.
// Failures are returned as domain errors from internal/errors; store
// failures are wrapped and passed through unchanged.
package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	domainerrors "github.com/adrianbrandt/web-chores/internal/errors"
	"github.com/adrianbrandt/web-chores/internal/storage"
)

// inviteCodeBytes is the entropy of a group invite code before hex encoding.
const inviteCodeBytes = 8

func newInviteCode() (string, error) {
	b := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// notFound translates storage.ErrNotFound into the given domain error and
// leaves every other error untouched.
func notFound(err error, domainErr *domainerrors.Error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return domainErr
	}
	return err
}

// duplicate translates storage.ErrDuplicate into the given domain error.
func duplicate(err error, domainErr *domainerrors.Error) error {
	if errors.Is(err, storage.ErrDuplicate) {
		return domainErr
	}
	return err
}
