// Package account defines account identities and their format rules.
package account

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	MinLength = 2
	MaxLength = 64
)

// ErrInvalid is returned for malformed account ids.
var ErrInvalid = errors.New("invalid account id")

// pattern: lowercase alphanumeric parts joined by '.', each part may use
// single '-' or '_' separators; separators never lead, trail or repeat.
var pattern = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`)

// ID identifies an account (a caller or an addressable service).
type ID string

// Balance is an amount of transferable value attached to a call.
type Balance uint64

func (id ID) String() string { return string(id) }

// Validate checks the account id format.
func Validate(id string) error {
	if n := len(id); n < MinLength || n > MaxLength {
		return fmt.Errorf("%w %q: length must be between %d and %d", ErrInvalid, id, MinLength, MaxLength)
	}
	if !pattern.MatchString(id) {
		return fmt.Errorf("%w %q", ErrInvalid, id)
	}
	return nil
}

// Parse validates id and returns it as ID.
func Parse(id string) (ID, error) {
	if err := Validate(id); err != nil {
		return "", err
	}
	return ID(id), nil
}
