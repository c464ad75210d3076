/*
chagectl - account expiration management for Linux hosts.
Copyright © 2026 chagectl contributors

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

package modproto

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/foxcpp/chagectl/internal/account"
)

// Main runs the module and returns the process exit status.
//
// argv[1], if present, names the arguments file. Otherwise arguments are
// read from stdin. The result record is written to stdout, log messages go
// to caps.Log.
func Main(ctx context.Context, argv []string, stdin io.Reader, stdout io.Writer, caps account.Capabilities) int {
	data, err := readArgs(argv, stdin)
	if err != nil {
		return fail(stdout, caps, err)
	}

	args, err := ParseArgs(data)
	if err != nil {
		return fail(stdout, caps, err)
	}
	if args.Debug {
		caps.Log.Debug = true
	}
	caps.Log.Fields = map[string]interface{}{"user": args.User}

	res, err := account.Run(ctx, account.Config{
		User:       args.User,
		ExpireDate: args.ExpireDate,
		CheckOnly:  args.CheckMode,
	}, caps)
	if err != nil {
		return fail(stdout, caps, err)
	}

	if err := Write(stdout, Success(res)); err != nil {
		caps.Log.Error("cannot write result", err)
		return 1
	}
	return 0
}

func readArgs(argv []string, stdin io.Reader) ([]byte, error) {
	if len(argv) > 1 {
		data, err := os.ReadFile(argv[1])
		if err != nil {
			return nil, fmt.Errorf("cannot read module arguments: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("cannot read module arguments: %w", err)
	}
	return data, nil
}

func fail(stdout io.Writer, caps account.Capabilities, err error) int {
	caps.Log.Error("module failed", err)
	if werr := Write(stdout, Failure(err)); werr != nil {
		caps.Log.Error("cannot write result", werr)
	}
	return 1
}
