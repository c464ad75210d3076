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

package exterrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFields(t *testing.T) {
	base := errors.New("permission denied")
	inner := WithFields(base, map[string]interface{}{"errno": 13, "path": "/etc/shadow"})
	wrapped := fmt.Errorf("lookup: %w", inner)
	outer := WithFields(wrapped, map[string]interface{}{"path": "/custom/shadow", "user": "john"})

	require.Equal(t, map[string]interface{}{
		"errno": 13,
		"path":  "/custom/shadow",
		"user":  "john",
	}, Fields(outer))
	require.ErrorIs(t, outer, base)
	require.Equal(t, "lookup: permission denied", outer.Error())
}

func TestFields_Plain(t *testing.T) {
	require.Empty(t, Fields(errors.New("x")))
	require.Empty(t, Fields(nil))
}

func TestFields_Joined(t *testing.T) {
	first := WithFields(errors.New("a"), map[string]interface{}{"rc": 1, "path": "/usr/bin/chage"})
	second := WithFields(errors.New("b"), map[string]interface{}{"rc": 2, "user": "john"})
	joined := WithFields(errors.Join(first, second), map[string]interface{}{"path": "/sbin/chage"})

	require.Equal(t, map[string]interface{}{
		"rc":   1,
		"path": "/sbin/chage",
		"user": "john",
	}, Fields(joined))
}

func TestWithFields_Nil(t *testing.T) {
	require.NoError(t, WithFields(nil, map[string]interface{}{"rc": 1}))
}
