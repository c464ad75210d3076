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

// Package expiry converts account expiration values between the forms used
// by people, by the shadow database and by chage(1).
//
// An expiration value is accepted as a literal YYYY-MM-DD date, as a
// positive number of days since 1970-01-01, or as one of the "never
// expires" sentinels: -1, "-1", "" or "never" in any letter case.
package expiry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// Never is the display form of "account does not expire".
	Never = "Never"

	// NeverArg is the chage(1) argument that removes the expiration date.
	NeverArg = "-1"

	layout = "2006-01-02"

	// Days between the epoch and 9999-12-31, the last date that still
	// formats as YYYY-MM-DD.
	maxDays = 2932896
)

var (
	ErrUnrecognizedDate = errors.New("expiry: cannot interpret date")

	literalDate = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
	epoch       = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Date is a normalized expiration value.
//
// Display is either a YYYY-MM-DD date or Never. Command is the value to
// pass to chage --expiredate: the same date or NeverArg. Both fields always
// denote the same expiration.
type Date struct {
	Display string
	Command string
}

func (d Date) IsNever() bool {
	return d.Display == Never
}

func (d Date) String() string {
	return d.Display
}

// Normalize converts v into a Date.
//
// v may be a string, a json.Number, a value of any integer kind or an
// integral value of a float kind (encoding/json produces float64). Values
// that match none of the accepted forms, including a day count of 0, are
// reported as ErrUnrecognizedDate. Literal dates are not checked for
// calendar validity.
func Normalize(v interface{}) (Date, error) {
	if n, ok := v.(json.Number); ok {
		return normalizeString(n.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return normalizeString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return normalizeInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() > math.MaxInt64 {
			return Date{}, unrecognized(v)
		}
		return normalizeInt(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.Abs(f) > maxDays {
			return Date{}, unrecognized(v)
		}
		return normalizeInt(int64(f))
	}
	return Date{}, unrecognized(v)
}

func normalizeString(s string) (Date, error) {
	if literalDate.MatchString(s) {
		return Date{Display: s, Command: s}, nil
	}

	if isDigits(s) {
		days, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Date{}, unrecognized(s)
		}
		return normalizeInt(days)
	}

	switch strings.ToLower(s) {
	case NeverArg, "", "never":
		return never(), nil
	}

	return Date{}, unrecognized(s)
}

func normalizeInt(days int64) (Date, error) {
	switch {
	case days > 0 && days <= maxDays:
		d := FromDays(int(days))
		return Date{Display: d, Command: d}, nil
	case days == -1:
		return never(), nil
	}
	return Date{}, unrecognized(days)
}

func never() Date {
	return Date{Display: Never, Command: NeverArg}
}

func unrecognized(v interface{}) error {
	return fmt.Errorf("%w: %v", ErrUnrecognizedDate, v)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FromDays renders a raw shadow expiration field for display.
//
// Negative values (the shadow database stores an empty field, read as -1)
// mean the account never expires. 0 renders as the epoch date.
func FromDays(days int) string {
	if days < 0 {
		return Never
	}
	return epoch.AddDate(0, 0, days).Format(layout)
}

// Unix returns the start of the expiration day as a Unix timestamp, or -1
// for Never. It fails for literal dates that are not real calendar dates.
func Unix(display string) (int64, error) {
	if display == Never {
		return -1, nil
	}
	t, err := time.ParseInLocation(layout, display, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("expiry: %w", err)
	}
	return t.Unix(), nil
}
