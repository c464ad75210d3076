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

package account

import (
	"time"

	"github.com/foxcpp/chagectl/internal/expiry"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the metrics of a single run. It is written out with
// WriteMetrics for the node_exporter textfile collector.
var Registry = prometheus.NewRegistry()

var (
	expireTimestamp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "chagectl",
			Subsystem: "account",
			Name:      "expire_timestamp_seconds",
			Help:      "Account expiration date as a Unix timestamp, -1 if the account never expires",
		},
		[]string{"user"},
	)
	changeApplied = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "chagectl",
			Name:      "change_applied",
			Help:      "1 if the last run changed the account expiration date",
		},
		[]string{"user"},
	)
	lastRun = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chagectl",
			Name:      "last_run_timestamp_seconds",
			Help:      "Time of the last run",
		},
	)
)

func init() {
	Registry.MustRegister(expireTimestamp)
	Registry.MustRegister(changeApplied)
	Registry.MustRegister(lastRun)
}

func recordObserved(acct AccountExpiration) {
	lastRun.Set(float64(time.Now().Unix()))
	changeApplied.WithLabelValues(acct.User).Set(0)
	setExpire(acct)
}

func recordApplied(acct AccountExpiration) {
	changeApplied.WithLabelValues(acct.User).Set(1)
	setExpire(acct)
}

func setExpire(acct AccountExpiration) {
	ts, err := expiry.Unix(acct.ExpireDate)
	if err != nil {
		// Literal dates are not validated, there is nothing sensible to
		// export for 2024-02-30.
		expireTimestamp.DeleteLabelValues(acct.User)
		return
	}
	expireTimestamp.WithLabelValues(acct.User).Set(float64(ts))
}

// WriteMetrics writes the collected metrics to path in the Prometheus text
// format. The file is replaced atomically.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
