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
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Prompter asks yes/no questions on In, writing prompts to Out.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	scnr *bufio.Scanner
}

// Stdio returns a Prompter reading stdin and writing to stderr.
func Stdio() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stderr}
}

func (p *Prompter) Confirmation(prompt string, def bool) bool {
	if p.scnr == nil {
		p.scnr = bufio.NewScanner(p.In)
	}

	selection := "y/N"
	if def {
		selection = "Y/n"
	}

	fmt.Fprintf(p.Out, "%s [%s]: ", prompt, selection)
	if !p.scnr.Scan() {
		if err := p.scnr.Err(); err != nil {
			fmt.Fprintln(p.Out, err)
		}
		return false
	}

	switch p.scnr.Text() {
	case "Y", "y":
		return true
	case "N", "n":
		return false
	default:
		return def
	}
}

// Interactive reports whether In is a terminal.
func (p *Prompter) Interactive() bool {
	f, ok := p.In.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
