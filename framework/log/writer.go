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

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

type writerOutput struct {
	w          io.Writer
	timestamps bool
}

func (o writerOutput) Write(stamp time.Time, debug bool, msg string) {
	var b strings.Builder
	if o.timestamps {
		b.WriteString(stamp.UTC().Format("2006-01-02T15:04:05.000Z "))
	}
	if debug {
		b.WriteString("[debug] ")
	}
	b.WriteString(msg)
	b.WriteByte('\n')

	if _, err := io.WriteString(o.w, b.String()); err != nil {
		fmt.Fprintf(os.Stderr, "!!! Failed to write message to log: %v\n", err)
	}
}

func (writerOutput) Close() error {
	return nil
}

// WriterOutput returns an Output that writes one line per message to w,
// with a "[debug] " prefix on debug messages and, if timestamps is set, a
// UTC timestamp with millisecond precision.
//
// Closing the Output does not close w.
func WriterOutput(w io.Writer, timestamps bool) Output {
	return writerOutput{w: w, timestamps: timestamps}
}
