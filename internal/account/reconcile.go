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
	"context"
	"errors"

	"github.com/foxcpp/chagectl/framework/log"
	"github.com/foxcpp/chagectl/internal/chage"
	"github.com/foxcpp/chagectl/internal/expiry"
)

// Plan is the outcome of comparing declared and observed state.
type Plan struct {
	// Changed is true if chage has to be run to reach the declared state.
	Changed bool

	// Args is the chage argument vector, without the binary path. Empty if
	// Changed is false.
	Args []string

	// Result is the state to report once the plan is applied.
	Result AccountExpiration

	// DateErr is set if the declared expiration was given but could not be
	// interpreted. Such a value is treated as not given.
	DateErr error
}

// Reconcile compares the declared expiration with the observed state.
//
// desired is the raw declared value as accepted by expiry.Normalize; nil
// means no expiration was declared. Reconcile never fails: an
// unrecognized value yields a no-op plan with DateErr set.
func Reconcile(observed AccountExpiration, desired interface{}) Plan {
	noop := Plan{Result: observed}
	if desired == nil {
		return noop
	}

	date, err := expiry.Normalize(desired)
	if err != nil {
		noop.DateErr = err
		return noop
	}

	if date.Display == observed.ExpireDate {
		return noop
	}

	return Plan{
		Changed: true,
		Args:    chage.ExpireDateArgs(date.Command, observed.User),
		Result: AccountExpiration{
			User:       observed.User,
			ExpireDate: date.Display,
		},
	}
}

// Config is the declared state for one run.
type Config struct {
	User string

	// ExpireDate is the raw declared expiration, nil if not declared.
	ExpireDate interface{}

	// CheckOnly reports the prospective result without running chage.
	CheckOnly bool
}

// Capabilities are the host facilities Run needs.
type Capabilities struct {
	Source Source
	Runner chage.Runner
	Log    log.Logger
}

// Result is reported back to the caller.
type Result struct {
	Changed bool              `json:"changed" yaml:"changed"`
	Info    AccountExpiration `json:"info" yaml:"info"`
}

var ErrNoUser = errors.New("account: user is required")

// Run looks up the account, reconciles it with cfg and, unless
// cfg.CheckOnly is set, applies the change.
//
// Lookup and chage failures are returned as is. No retries are made.
func Run(ctx context.Context, cfg Config, caps Capabilities) (Result, error) {
	if cfg.User == "" {
		return Result{}, ErrNoUser
	}

	observed, err := caps.Source.Lookup(cfg.User)
	if err != nil {
		return Result{}, err
	}
	caps.Log.DebugMsg("observed", "user", observed.User, "expire_date", observed.ExpireDate)
	recordObserved(observed)

	plan := Reconcile(observed, cfg.ExpireDate)
	if plan.DateErr != nil {
		caps.Log.Error("ignoring expire_date", plan.DateErr, "user", cfg.User)
	}
	if !plan.Changed {
		return Result{Changed: false, Info: observed}, nil
	}

	if cfg.CheckOnly {
		caps.Log.Msg("would change expiration", "user", cfg.User,
			"from", observed.ExpireDate, "to", plan.Result.ExpireDate)
		return Result{Changed: true, Info: plan.Result}, nil
	}

	if err := caps.Runner.Run(ctx, plan.Args); err != nil {
		return Result{}, err
	}

	caps.Log.Msg("expiration changed", "user", cfg.User,
		"from", observed.ExpireDate, "to", plan.Result.ExpireDate)
	recordApplied(plan.Result)

	return Result{Changed: true, Info: plan.Result}, nil
}
