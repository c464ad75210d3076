/*
chagectl - account expiration management for Linux hosts.
Copyright © 2019-2020 Max Mazurov <fox.cpp@disroot.org>, Maddy Mail Server contributors

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

package shadow

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrNoSuchUser = errors.New("shadow: user entry is not present in database")

// Read reads the shadow database at path and returns all entries in it.
//
// The error from opening the file is returned as is (wrapped in
// *fs.PathError by os.Open), so callers can test it with
// errors.Is(err, fs.ErrPermission).
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads shadow entries from r. Blank lines are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	scnr := bufio.NewScanner(r)

	var (
		res  []Entry
		line int
	)
	for scnr.Scan() {
		line++
		if strings.TrimSpace(scnr.Text()) == "" {
			continue
		}

		ent, err := parseEntry(scnr.Text())
		if err != nil {
			return res, fmt.Errorf("shadow: line %d: %w", line, err)
		}

		res = append(res, *ent)
	}
	if err := scnr.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func parseEntry(line string) (*Entry, error) {
	parts := strings.Split(line, ":")
	if len(parts) != 9 {
		return nil, errors.New("malformed entry")
	}

	res := &Entry{
		Name: parts[0],
		Pass: parts[1],
	}

	for i, value := range [...]*int{
		&res.LastChange, &res.MinPassAge, &res.MaxPassAge,
		&res.WarnPeriod, &res.InactivityPeriod, &res.AcctExpiry, &res.Flags,
	} {
		if parts[2+i] == "" {
			*value = -1
		} else {
			var err error
			*value, err = strconv.Atoi(parts[2+i])
			if err != nil {
				return nil, fmt.Errorf("invalid value for field %d", 2+i)
			}
		}
	}

	return res, nil
}

// Lookup returns the entry for name from the shadow database at path.
func Lookup(path, name string) (*Entry, error) {
	entries, err := Read(path)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.Name == name {
			entry := entry
			return &entry, nil
		}
	}

	return nil, ErrNoSuchUser
}
