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
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testDB = `root:*:19000:0:99999:7:::
john:$6$salt$hash:19000:0:99999:7::20089:

jane:!:19000::::::
`

func writeDB(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shadow")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(testDB))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, Entry{
		Name:             "john",
		Pass:             "$6$salt$hash",
		LastChange:       19000,
		MinPassAge:       0,
		MaxPassAge:       99999,
		WarnPeriod:       7,
		InactivityPeriod: -1,
		AcctExpiry:       20089,
		Flags:            -1,
	}, entries[1])

	require.Equal(t, -1, entries[2].AcctExpiry)
	require.Equal(t, -1, entries[2].MinPassAge)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader("root:*:19000\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1")

	_, err = Parse(strings.NewReader("root:*:x:0:99999:7:::\n"))
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	path := writeDB(t, testDB)

	ent, err := Lookup(path, "john")
	require.NoError(t, err)
	require.Equal(t, "john", ent.Name)
	require.Equal(t, 20089, ent.AcctExpiry)

	_, err = Lookup(path, "nobody")
	require.ErrorIs(t, err, ErrNoSuchUser)
}

func TestLookup_Permission(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	path := writeDB(t, testDB)
	require.NoError(t, os.Chmod(path, 0o000))

	_, err := Lookup(path, "john")
	require.True(t, errors.Is(err, fs.ErrPermission), "got %v", err)
}

func TestLookup_Missing(t *testing.T) {
	_, err := Lookup(filepath.Join(t.TempDir(), "nope"), "john")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestIsAccountValid(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, (&Entry{AcctExpiry: -1}).IsAccountValid(now))
	require.True(t, (&Entry{AcctExpiry: 20089}).IsAccountValid(now))
	require.False(t, (&Entry{AcctExpiry: 19000}).IsAccountValid(now))
}
