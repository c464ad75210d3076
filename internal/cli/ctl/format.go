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

package ctl

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

var formats = []string{"text", "json", "yaml"}

type status struct {
	User       string `json:"user" yaml:"user"`
	ExpireDate string `json:"expire_date" yaml:"expire_date"`
	Expired    *bool  `json:"expired,omitempty" yaml:"expired,omitempty"`
	Changed    *bool  `json:"changed,omitempty" yaml:"changed,omitempty"`
}

func writeStatus(w io.Writer, format string, st status) error {
	switch format {
	case "", "text":
		fmt.Fprintf(w, "user: %s\n", st.User)
		fmt.Fprintf(w, "expire_date: %s\n", st.ExpireDate)
		if st.Expired != nil {
			fmt.Fprintf(w, "expired: %t\n", *st.Expired)
		}
		if st.Changed != nil {
			fmt.Fprintf(w, "changed: %t\n", *st.Changed)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(st); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q, valid values are: %v", format, formats)
}
