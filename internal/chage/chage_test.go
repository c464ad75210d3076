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

package chage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/foxcpp/chagectl/framework/exterrors"
	"github.com/foxcpp/chagectl/framework/log"
	"github.com/foxcpp/chagectl/internal/testutils"
	"github.com/stretchr/testify/require"
)

// fakeChage writes a shell script that records its arguments to a file
// and exits with the given status.
func fakeChage(t *testing.T, exitCode int, stderr string) (bin, argsFile string) {
	t.Helper()

	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}

	dir := t.TempDir()
	bin = filepath.Join(dir, "chage")
	argsFile = filepath.Join(dir, "args")

	script := "#!/bin/sh\n" +
		"printf '%s\\n' \"$@\" > '" + argsFile + "'\n"
	if stderr != "" {
		script += "cat >&2 <<'EOF'\n" + stderr + "\nEOF\n"
	}
	script += "exit " + strconv.Itoa(exitCode) + "\n"

	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, argsFile
}

func TestExecRun(t *testing.T) {
	bin, argsFile := fakeChage(t, 0, "")

	e := Exec{Path: bin, Log: testutils.Logger(t, "chage")}
	err := e.Run(context.Background(), ExpireDateArgs("2025-01-01", "john"))
	require.NoError(t, err)

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "--expiredate\n2025-01-01\njohn\n", string(recorded))
}

func TestExecRun_Failure(t *testing.T) {
	bin, _ := fakeChage(t, 1, "chage: user 'john' does not exist in /etc/passwd")

	e := Exec{Path: bin, Log: testutils.Logger(t, "chage")}
	err := e.Run(context.Background(), ExpireDateArgs("-1", "john"))
	require.ErrorIs(t, err, ErrCommandFailed)

	var cf *CommandFailed
	require.True(t, errors.As(err, &cf))
	require.Equal(t, 1, cf.RC)
	require.Equal(t, "chage: user 'john' does not exist in /etc/passwd", err.Error())
	require.Equal(t, 1, exterrors.Fields(err)["rc"])
}

func TestExecRun_NotStarted(t *testing.T) {
	e := Exec{Path: filepath.Join(t.TempDir(), "missing"), Log: testutils.Logger(t, "chage")}
	err := e.Run(context.Background(), ExpireDateArgs("-1", "john"))
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrCommandFailed))
}

func TestCommandFailed_EmptyStderr(t *testing.T) {
	cf := &CommandFailed{RC: 3}
	require.Equal(t, "exit status 3", cf.Error())
}

func TestLookPath_Configured(t *testing.T) {
	path, err := LookPath("/opt/bin/chage")
	require.NoError(t, err)
	require.Equal(t, "/opt/bin/chage", path)
}

func TestExpireDateArgs(t *testing.T) {
	require.Equal(t, []string{"--expiredate", "-1", "john"}, ExpireDateArgs("-1", "john"))
}

func TestExecRun_DebugLog(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	bin := filepath.Join(t.TempDir(), "chage")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho 'expiration updated'\n"), 0o755))

	var (
		mu    sync.Mutex
		lines []string
	)
	l := log.Logger{
		Out: log.FuncOutput(func(_ time.Time, debug bool, msg string) {
			mu.Lock()
			defer mu.Unlock()
			if !debug {
				msg = "[not debug] " + msg
			}
			lines = append(lines, msg)
		}, nil),
		Name:  "chage",
		Debug: true,
	}

	require.NoError(t, Exec{Path: bin, Log: l}.Run(context.Background(), ExpireDateArgs("-1", "john")))

	require.Len(t, lines, 3)
	require.Equal(t, `chage: running chage	{"args":["--expiredate","-1","john"],"path":"`+bin+`"}`, lines[0])
	require.Equal(t, "chage: expiration updated", lines[1])
	require.True(t, strings.HasPrefix(lines[2], "chage: chage finished\t"), lines[2])
}

func TestExecRun_QuietWithoutDebug(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	bin := filepath.Join(t.TempDir(), "chage")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho 'expiration updated'\n"), 0o755))

	var lines []string
	l := log.Logger{
		Out: log.FuncOutput(func(_ time.Time, _ bool, msg string) {
			lines = append(lines, msg)
		}, nil),
		Name: "chage",
	}

	require.NoError(t, Exec{Path: bin, Log: l}.Run(context.Background(), ExpireDateArgs("-1", "john")))
	require.Empty(t, lines)
}
