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

// Package exterrors attaches structured context to errors so it can be
// logged or reported without parsing error strings.
package exterrors

// FieldsError is implemented by errors that carry log fields.
type FieldsError interface {
	error
	Fields() map[string]interface{}
}

type fieldsWrap struct {
	err    error
	fields map[string]interface{}
}

func (fw fieldsWrap) Error() string                  { return fw.err.Error() }
func (fw fieldsWrap) Unwrap() error                  { return fw.err }
func (fw fieldsWrap) Fields() map[string]interface{} { return fw.fields }

// WithFields returns err annotated with fields. A nil err stays nil.
func WithFields(err error, fields map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return fieldsWrap{err: err, fields: fields}
}

// Fields collects fields from err and every error in its tree, including
// the branches of errors.Join. When a key is set more than once, the value
// closest to err wins.
func Fields(err error) map[string]interface{} {
	fields := make(map[string]interface{}, 5)
	collect(err, fields)
	return fields
}

func collect(err error, into map[string]interface{}) {
	for err != nil {
		if fe, ok := err.(FieldsError); ok {
			for k, v := range fe.Fields() {
				if _, set := into[k]; !set {
					into[k] = v
				}
			}
		}

		switch u := err.(type) {
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		case interface{ Unwrap() []error }:
			for _, branch := range u.Unwrap() {
				collect(branch, into)
			}
			return
		default:
			return
		}
	}
}
