// Package domain contains entities without transport or lifecycle logic.
package domain

import "errors"

var ErrUserIDEmpty = errors.New("user id empty")

// UserID is the caller-chosen name an endpoint registers under.
// It is opaque: any non-empty string is accepted.
type UserID string

func (u UserID) Validate() error {
	if u == "" {
		return ErrUserIDEmpty
	}
	return nil
}

func (u UserID) String() string { return string(u) }
