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

// Package modproto implements the binary module calling convention used
// by configuration management tools: arguments are read as a JSON object
// from a file named on the command line and a single JSON result object is
// written to stdout.
package modproto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/foxcpp/chagectl/internal/account"
	"github.com/foxcpp/chagectl/internal/chage"
)

// Name is the module name used in error messages.
const Name = "chage"

// Args are the module parameters.
type Args struct {
	User string

	// ExpireDate is nil if expire_date was omitted or null. Otherwise it
	// is a string or a json.Number. Other JSON values are kept as their
	// JSON text.
	ExpireDate interface{}

	CheckMode bool
	Debug     bool
}

var userAliases = []string{"user", "name", "username"}

// ParseArgs decodes module parameters.
//
// data is either the parameter object itself or an object with the
// parameters under the ANSIBLE_MODULE_ARGS key.
func ParseArgs(data []byte) (Args, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return Args{}, fmt.Errorf("cannot parse module arguments: %w", err)
	}
	if wrapped, ok := raw["ANSIBLE_MODULE_ARGS"]; ok {
		raw, err = decodeObject(wrapped)
		if err != nil {
			return Args{}, fmt.Errorf("cannot parse module arguments: %w", err)
		}
	}

	var (
		args    Args
		unknown []string
	)
	for key, val := range raw {
		switch {
		case contains(userAliases, key):
			var user *string
			if err := json.Unmarshal(val, &user); err != nil {
				return Args{}, fmt.Errorf("argument %s is of type %s and we were unable to convert to str", key, jsonType(val))
			}
			if user == nil {
				continue
			}
			if args.User != "" && args.User != *user {
				return Args{}, fmt.Errorf("parameters are mutually exclusive: %s", strings.Join(userAliases, "|"))
			}
			args.User = *user
		case key == "expire_date":
			args.ExpireDate, err = decodeDate(val)
			if err != nil {
				return Args{}, fmt.Errorf("cannot parse module arguments: %w", err)
			}
		case key == "_ansible_check_mode":
			if err := json.Unmarshal(val, &args.CheckMode); err != nil {
				return Args{}, fmt.Errorf("invalid _ansible_check_mode: %w", err)
			}
		case key == "_ansible_debug":
			if err := json.Unmarshal(val, &args.Debug); err != nil {
				return Args{}, fmt.Errorf("invalid _ansible_debug: %w", err)
			}
		case strings.HasPrefix(key, "_ansible_"):
			// Other internal parameters are not used by this module.
		default:
			unknown = append(unknown, key)
		}
	}

	if len(unknown) != 0 {
		sort.Strings(unknown)
		return Args{}, fmt.Errorf("unsupported parameters for (%s) module: %s. Supported parameters include: expire_date, user (name, username).",
			Name, strings.Join(unknown, ", "))
	}
	if args.User == "" {
		return Args{}, errors.New("missing required arguments: user")
	}

	return args, nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("arguments must be a JSON object")
	}
	return raw, nil
}

// decodeDate returns nil for null, a string for JSON strings and a
// json.Number for JSON numbers. Booleans, lists and objects are returned
// as their compact JSON text, which is never a valid date.
func decodeDate(val json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(val))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string, json.Number:
		return v, nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, val); err != nil {
		return nil, err
	}
	return compact.String(), nil
}

func jsonType(val json.RawMessage) string {
	trimmed := bytes.TrimSpace(val)
	if len(trimmed) == 0 {
		return "unknown"
	}
	switch trimmed[0] {
	case '{':
		return "dict"
	case '[':
		return "list"
	case '"':
		return "str"
	case 't', 'f':
		return "bool"
	case 'n':
		return "NoneType"
	}
	return "int"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Response is the module result record.
type Response struct {
	Changed bool                       `json:"changed"`
	Failed  bool                       `json:"failed,omitempty"`
	Msg     string                     `json:"msg,omitempty"`
	RC      *int                       `json:"rc,omitempty"`
	Info    *account.AccountExpiration `json:"info,omitempty"`
}

// Success builds the response for a completed run.
func Success(res account.Result) Response {
	info := res.Info
	return Response{Changed: res.Changed, Info: &info}
}

// Failure builds the response for a failed run. The exit status of a
// failed chage run is reported in rc.
func Failure(err error) Response {
	resp := Response{Failed: true, Msg: err.Error()}

	var cf *chage.CommandFailed
	if errors.As(err, &cf) {
		rc := cf.RC
		resp.RC = &rc
	}
	return resp
}

// Write writes resp as a single JSON line.
func Write(w io.Writer, resp Response) error {
	return json.NewEncoder(w).Encode(resp)
}
