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

// Package chage runs the chage(1) utility.
package chage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/foxcpp/chagectl/framework/exterrors"
	"github.com/foxcpp/chagectl/framework/log"
	"go.uber.org/zap"
)

// ExpireDateFlag is the chage option that sets the account expiration date.
const ExpireDateFlag = "--expiredate"

var ErrCommandFailed = errors.New("chage: command failed")

// Runner runs chage with the given arguments and waits for it to finish.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// CommandFailed is returned by Exec.Run when chage exits with a non-zero
// status.
type CommandFailed struct {
	Args   []string
	RC     int
	Stderr string
}

func (cf *CommandFailed) Error() string {
	msg := strings.TrimSpace(cf.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", cf.RC)
	}
	return msg
}

func (cf *CommandFailed) Unwrap() error {
	return ErrCommandFailed
}

func (cf *CommandFailed) Fields() map[string]interface{} {
	return map[string]interface{}{
		"rc":   cf.RC,
		"args": strings.Join(cf.Args, " "),
	}
}

// Exec runs the chage binary at Path. If Path is empty, chage is looked up
// in PATH when Run is called, so a run that changes nothing does not need
// the binary to be installed.
type Exec struct {
	Path string
	Log  log.Logger
}

func (e Exec) Run(ctx context.Context, args []string) error {
	path, err := LookPath(e.Path)
	if err != nil {
		return err
	}

	z := e.Log.Zap().With(zap.String("path", path), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, path, args...)

	var stderr bytes.Buffer
	cmd.Stdout = e.Log.DebugWriter()
	cmd.Stderr = &stderr

	z.Debug("running chage")
	start := time.Now()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			z.Debug("chage failed", zap.Int("rc", exitErr.ExitCode()), zap.Duration("took", time.Since(start)))
			return &CommandFailed{
				Args:   args,
				RC:     exitErr.ExitCode(),
				Stderr: stderr.String(),
			}
		}
		// Killed by a signal or could not be started at all: no exit
		// status to report.
		return exterrors.WithFields(
			fmt.Errorf("chage: %w", err),
			map[string]interface{}{"path": path},
		)
	}

	z.Debug("chage finished", zap.Duration("took", time.Since(start)))
	return nil
}

// ExpireDateArgs builds the argument vector that sets the expiration date
// of user to value.
func ExpireDateArgs(value, user string) []string {
	return []string{ExpireDateFlag, value, user}
}

// LookPath returns configured if it is not empty, otherwise it searches
// for chage in PATH.
func LookPath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	path, err := exec.LookPath("chage")
	if err != nil {
		return "", fmt.Errorf("chage: %w", err)
	}
	return path, nil
}
