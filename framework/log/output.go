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
	"errors"
	"time"
)

// Output is a log message destination. Write must not fail: outputs report
// their own write errors out of band.
type Output interface {
	Write(stamp time.Time, debug bool, msg string)
	Close() error
}

type multiOutput []Output

func (m multiOutput) Write(stamp time.Time, debug bool, msg string) {
	for _, out := range m {
		out.Write(stamp, debug, msg)
	}
}

func (m multiOutput) Close() error {
	errs := make([]error, 0, len(m))
	for _, out := range m {
		errs = append(errs, out.Close())
	}
	return errors.Join(errs...)
}

// MultiOutput returns an Output that duplicates every message to all
// outputs. Close closes all of them and joins their errors.
func MultiOutput(outputs ...Output) Output {
	return multiOutput(outputs)
}

type funcOutput struct {
	write func(time.Time, bool, string)
	close func() error
}

func (f funcOutput) Write(stamp time.Time, debug bool, msg string) {
	f.write(stamp, debug, msg)
}

func (f funcOutput) Close() error {
	if f.close == nil {
		return nil
	}
	return f.close()
}

// FuncOutput adapts a function to Output. close may be nil.
func FuncOutput(write func(time.Time, bool, string), close func() error) Output {
	return funcOutput{write: write, close: close}
}
