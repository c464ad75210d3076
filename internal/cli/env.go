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

package chagecli

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile holds site-wide defaults for CHAGECTL_* variables.
const DefaultEnvFile = "/etc/default/chagectl"

const envFileVar = "CHAGECTL_ENV_FILE"

// EnvFilePath returns the env file requested by --env-file in args, the
// CHAGECTL_ENV_FILE variable or DefaultEnvFile, in that order.
//
// It has to run before flag parsing since variables from the file are
// flag defaults.
func EnvFilePath(args []string, getenv func(string) string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if name == "env-file" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(name, "env-file=") {
			return strings.TrimPrefix(name, "env-file=")
		}
	}

	if path := getenv(envFileVar); path != "" {
		return path
	}
	return DefaultEnvFile
}

// LoadEnvFile sets variables from path that are not already set in the
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}

// EnvBool reads a boolean variable the same way the global boolean flags
// read their CHAGECTL_* variables. An unset or empty variable is false.
func EnvBool(getenv func(string) string, name string) (bool, error) {
	val := strings.TrimSpace(getenv(name))
	if val == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("could not parse %q as bool value from %s", val, name)
	}
	return b, nil
}
