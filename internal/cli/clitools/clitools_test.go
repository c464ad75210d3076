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

package clitools

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfirmation(t *testing.T) {
	for _, tc := range []struct {
		input string
		def   bool
		want  bool
	}{
		{"y\n", false, true},
		{"Y\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"\n", false, false},
		{"maybe\n", false, false},
		{"", true, false},
	} {
		var out bytes.Buffer
		p := &Prompter{In: strings.NewReader(tc.input), Out: &out}
		require.Equal(t, tc.want, p.Confirmation("Change?", tc.def), "%q", tc.input)
		require.True(t, strings.HasPrefix(out.String(), "Change? ["), out.String())
	}
}

func TestInteractive_NotAFile(t *testing.T) {
	p := &Prompter{In: strings.NewReader("")}
	require.False(t, p.Interactive())
}
