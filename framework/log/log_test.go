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
	"strings"
	"testing"
	"time"

	"github.com/foxcpp/chagectl/framework/exterrors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capture struct {
	lines []string
	debug []bool
}

func (c *capture) output() Output {
	return FuncOutput(func(_ time.Time, debug bool, msg string) {
		c.lines = append(c.lines, msg)
		c.debug = append(c.debug, debug)
	}, func() error { return nil })
}

func TestLoggerMsg_OrderedFields(t *testing.T) {
	c := &capture{}
	l := Logger{Out: c.output(), Name: "chagectl"}

	l.Msg("expiration changed", "user", "john", "expire_date", "2025-01-01")

	require.Equal(t, []string{
		`chagectl: expiration changed	{"expire_date":"2025-01-01","user":"john"}`,
	}, c.lines)
}

func TestLoggerError_IncludesErrorFields(t *testing.T) {
	c := &capture{}
	l := Logger{Out: c.output(), Name: "chagectl"}

	err := exterrors.WithFields(errors.New("boom"), map[string]interface{}{"rc": 1})
	l.Error("chage failed", err, "user", "john")

	require.Len(t, c.lines, 1)
	require.Equal(t, `chagectl: chage failed	{"rc":1,"reason":"boom","user":"john"}`, c.lines[0])
}

func TestLoggerError_Nil(t *testing.T) {
	c := &capture{}
	l := Logger{Out: c.output()}
	l.Error("nothing", nil)
	require.Empty(t, c.lines)
}

func TestLoggerDebug(t *testing.T) {
	c := &capture{}
	l := Logger{Out: c.output(), Name: "test"}

	l.Debugf("hidden %d", 1)
	require.Empty(t, c.lines)

	l.Debug = true
	l.Debugf("shown %d", 2)
	require.Equal(t, []string{"test: shown 2"}, c.lines)
	require.Equal(t, []bool{true}, c.debug)
}

func TestLoggerFields(t *testing.T) {
	c := &capture{}
	l := Logger{Out: c.output(), Fields: map[string]interface{}{"user": "john"}}

	l.Msg("lookup", "path", "/etc/shadow")
	require.Equal(t, []string{`lookup	{"path":"/etc/shadow","user":"john"}`}, c.lines)
}

func TestSublogger(t *testing.T) {
	c := &capture{}
	l := Logger{Out: c.output(), Name: "chagectl"}

	l.Sublogger("shadow").Println("hello")
	require.Equal(t, []string{"chagectl/shadow: hello"}, c.lines)
}

func TestZapAdapter(t *testing.T) {
	c := &capture{}
	l := Logger{Out: c.output(), Name: "chagectl"}

	z := l.Zap().With(zap.String("user", "john"))
	z.Info("running chage", zap.Int("args", 3))
	z.Debug("not shown")

	require.Len(t, c.lines, 1)
	require.True(t, strings.HasPrefix(c.lines[0], "chagectl: running chage\t"))
	require.Contains(t, c.lines[0], `"args":3`)
	require.Contains(t, c.lines[0], `"user":"john"`)
}

func TestWriterOutput(t *testing.T) {
	var sb strings.Builder
	out := WriterOutput(&sb, false)
	out.Write(time.Now(), true, "hello")
	require.Equal(t, "[debug] hello\n", sb.String())
	require.NoError(t, out.Close())
}

func TestMultiOutput(t *testing.T) {
	var a, b strings.Builder
	errA, errB := errors.New("a"), errors.New("b")
	out := MultiOutput(
		FuncOutput(func(_ time.Time, _ bool, msg string) { a.WriteString(msg) }, func() error { return errA }),
		WriterOutput(&b, false),
		FuncOutput(func(time.Time, bool, string) {}, func() error { return errB }),
	)

	out.Write(time.Now(), false, "hello")
	require.Equal(t, "hello", a.String())
	require.Equal(t, "hello\n", b.String())

	err := out.Close()
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
}

func TestDebugWriter(t *testing.T) {
	c := &capture{}
	l := Logger{Out: c.output(), Name: "chage"}

	_, err := l.DebugWriter().Write([]byte("ignored\n"))
	require.NoError(t, err)
	require.Empty(t, c.lines)

	l.Debug = true
	_, err = l.DebugWriter().Write([]byte("shown\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"chage: shown"}, c.lines)
	require.Equal(t, []bool{true}, c.debug)
}
