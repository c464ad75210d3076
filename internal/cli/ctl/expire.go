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
	"errors"
	"fmt"
	"time"

	"github.com/foxcpp/chagectl/framework/log"
	"github.com/foxcpp/chagectl/internal/account"
	"github.com/foxcpp/chagectl/internal/chage"
	chagecli "github.com/foxcpp/chagectl/internal/cli"
	"github.com/foxcpp/chagectl/internal/cli/clitools"
	"github.com/foxcpp/chagectl/internal/shadow"
	"github.com/urfave/cli/v2"
)

// Prompter is used by 'set' to confirm changes. Replaced in tests.
var Prompter = clitools.Stdio()

func init() {
	shadowFlag := &cli.StringFlag{
		Name:    "shadow-file",
		Usage:   "Read account records from `PATH`",
		EnvVars: []string{"CHAGECTL_SHADOW_FILE"},
		Value:   shadow.DefaultPath,
	}
	formatFlag := &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"o"},
		Usage:   "Output format: text, json or yaml",
		Value:   "text",
	}

	chagecli.AddSubcommand(
		&cli.Command{
			Name:      "show",
			Usage:     "Show account expiration date",
			ArgsUsage: "USERNAME",
			Flags:     []cli.Flag{shadowFlag, formatFlag},
			Action:    showCommand,
		})
	chagecli.AddSubcommand(
		&cli.Command{
			Name:  "set",
			Usage: "Change account expiration date",
			Description: `Compares the requested expiration date with the current one and runs
chage --expiredate if they differ.

VALUE is YYYY-MM-DD, a number of days since 1970-01-01, or one of -1,
"never" or "" to remove the expiration date. A value that matches none
of these forms is ignored and nothing is changed.
`,
			ArgsUsage: "USERNAME",
			Flags: []cli.Flag{
				shadowFlag,
				formatFlag,
				&cli.StringFlag{
					Name:     "expire-date",
					Aliases:  []string{"E"},
					Usage:    "Set expiration date to `VALUE`",
					Required: true,
				},
				&cli.StringFlag{
					Name:    "chage-path",
					Usage:   "Use chage binary at `PATH` instead of searching PATH",
					EnvVars: []string{"CHAGECTL_CHAGE_PATH"},
				},
				&cli.StringFlag{
					Name:    "metrics-file",
					Usage:   "Write Prometheus metrics to `FILE` (node_exporter textfile format)",
					EnvVars: []string{"CHAGECTL_METRICS_FILE"},
				},
				&cli.BoolFlag{
					Name:  "check",
					Usage: "Only report what would be changed",
				},
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "Don't ask for confirmation",
				},
			},
			Action: setCommand,
		})
}

func showCommand(ctx *cli.Context) error {
	username := ctx.Args().First()
	if username == "" {
		return cli.Exit("Error: USERNAME is required", 2)
	}

	src := account.ShadowSource{Path: ctx.String("shadow-file")}
	ent, err := src.Entry(username)
	if err != nil {
		return err
	}

	acct := account.FromEntry(ent)
	expired := !ent.IsAccountValid(time.Now())
	return writeStatus(ctx.App.Writer, ctx.String("format"), status{
		User:       acct.User,
		ExpireDate: acct.ExpireDate,
		Expired:    &expired,
	})
}

func setCommand(ctx *cli.Context) error {
	username := ctx.Args().First()
	if username == "" {
		return cli.Exit("Error: USERNAME is required", 2)
	}

	logger := log.DefaultLogger.Sublogger("set")
	logger.Fields = map[string]interface{}{"user": username}

	src := account.ShadowSource{Path: ctx.String("shadow-file")}
	observed, err := src.Lookup(username)
	if err != nil {
		return err
	}

	desired := ctx.String("expire-date")
	checkOnly := ctx.Bool("check")

	plan := account.Reconcile(observed, desired)
	if plan.Changed && !checkOnly && !ctx.Bool("yes") {
		if !Prompter.Interactive() {
			return cli.Exit("Error: refusing to change expiration date without --yes when stdin is not a terminal", 2)
		}
		prompt := fmt.Sprintf("Change expiration date of %s from %s to %s?", username, observed.ExpireDate, plan.Result.ExpireDate)
		if !Prompter.Confirmation(prompt, false) {
			return errors.New("Cancelled")
		}
	}

	res, err := account.Run(ctx.Context, account.Config{
		User:       username,
		ExpireDate: desired,
		CheckOnly:  checkOnly,
	}, account.Capabilities{
		// The record was read above, do not read the database twice.
		Source: account.SourceFunc(func(string) (account.AccountExpiration, error) {
			return observed, nil
		}),
		Runner: chage.Exec{Path: ctx.String("chage-path"), Log: logger.Sublogger("chage")},
		Log:    logger,
	})
	if err != nil {
		return err
	}

	if path := ctx.String("metrics-file"); path != "" {
		if err := account.WriteMetrics(path); err != nil {
			logger.Error("cannot write metrics", err, "path", path)
		}
	}

	return writeStatus(ctx.App.Writer, ctx.String("format"), status{
		User:       res.Info.User,
		ExpireDate: res.Info.ExpireDate,
		Changed:    &res.Changed,
	})
}
