/*
chagectl - account expiration management for Linux hosts.
Copyright © 2026 chagectl contributors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package account reads and reconciles the expiration date of a single
// user account.
package account

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/foxcpp/chagectl/internal/expiry"
	"github.com/foxcpp/chagectl/internal/shadow"
)

var (
	ErrLookupDenied    = errors.New("account: permission denied reading account database")
	ErrAccountNotFound = errors.New("account: username not found")
)

// AccountExpiration is the observed or desired expiration state of one
// account. ExpireDate is a YYYY-MM-DD date or expiry.Never.
//
// Values are never modified after construction, a change produces a new
// value.
type AccountExpiration struct {
	User       string `json:"user" yaml:"user"`
	ExpireDate string `json:"expire_date" yaml:"expire_date"`
}

// Source looks up the current expiration state of an account.
type Source interface {
	Lookup(user string) (AccountExpiration, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(user string) (AccountExpiration, error)

func (f SourceFunc) Lookup(user string) (AccountExpiration, error) {
	return f(user)
}

// LookupError is returned by ShadowSource when the account record cannot
// be read. errors.Is matches it against ErrLookupDenied or
// ErrAccountNotFound.
type LookupError struct {
	Kind error
	User string
	Path string
	Err  error
}

func (le *LookupError) Error() string {
	if le.Kind == ErrAccountNotFound {
		return fmt.Sprintf("username not found: %s", le.User)
	}

	var errno syscall.Errno
	if errors.As(le.Err, &errno) {
		return fmt.Sprintf("unable to open %s, error(%d): %s", le.Path, int(errno), errno.Error())
	}
	return fmt.Sprintf("unable to open %s: %v", le.Path, le.Err)
}

func (le *LookupError) Unwrap() error {
	return le.Err
}

func (le *LookupError) Is(target error) bool {
	return target == le.Kind
}

func (le *LookupError) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"user": le.User,
		"path": le.Path,
	}

	var errno syscall.Errno
	if errors.As(le.Err, &errno) {
		fields["errno"] = int(errno)
		if name := errnoName(errno); name != "" {
			fields["errno_name"] = name
		}
	}
	return fields
}

// ShadowSource reads account state from a shadow(5) database file.
type ShadowSource struct {
	Path string
}

func (s ShadowSource) path() string {
	if s.Path == "" {
		return shadow.DefaultPath
	}
	return s.Path
}

// Entry returns the raw shadow entry for user.
func (s ShadowSource) Entry(user string) (*shadow.Entry, error) {
	path := s.path()

	ent, err := shadow.Lookup(path, user)
	switch {
	case err == nil:
		return ent, nil
	case errors.Is(err, fs.ErrPermission):
		return nil, &LookupError{Kind: ErrLookupDenied, User: user, Path: path, Err: err}
	case errors.Is(err, shadow.ErrNoSuchUser):
		return nil, &LookupError{Kind: ErrAccountNotFound, User: user, Path: path, Err: err}
	default:
		return nil, fmt.Errorf("account: lookup %s in %s: %w", user, path, err)
	}
}

func (s ShadowSource) Lookup(user string) (AccountExpiration, error) {
	ent, err := s.Entry(user)
	if err != nil {
		return AccountExpiration{}, err
	}
	return FromEntry(ent), nil
}

// FromEntry converts a shadow entry into its reported form.
func FromEntry(ent *shadow.Entry) AccountExpiration {
	return AccountExpiration{
		User:       ent.Name,
		ExpireDate: expiry.FromDays(ent.AcctExpiry),
	}
}
