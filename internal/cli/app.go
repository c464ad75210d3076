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

package chagecli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/foxcpp/chagectl/framework/log"
	"github.com/urfave/cli/v2"
)

var app *cli.App

func init() {
	app = cli.NewApp()
	app.Name = "chagectl"
	app.Usage = "query and change Linux account expiration dates"
	app.Description = `chagectl reports the expiration date of a user account from the shadow
password database and, if asked to, changes it using chage(1).

Expiration dates can be given as YYYY-MM-DD, as the number of days since
1970-01-01, or as -1, "never" or an empty string to remove the expiration.
`
	app.Version = BuildInfo()
	app.ExitErrHandler = func(c *cli.Context, err error) {
		cli.HandleExitCoder(err)
		if err != nil {
			log.DefaultLogger.Error("command failed", err)
			cli.OsExiter(1)
		}
	}
	app.EnableBashCompletion = true
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "Enable debug logging",
			EnvVars: []string{"CHAGECTL_DEBUG"},
		},
		&cli.BoolFlag{
			Name:    "syslog",
			Usage:   "Also send log messages to the system log",
			EnvVars: []string{"CHAGECTL_SYSLOG"},
		},
		&cli.StringFlag{
			Name:    "env-file",
			Usage:   "Read default settings from `FILE` (KEY=value lines)",
			EnvVars: []string{envFileVar},
			Value:   DefaultEnvFile,
		},
	}
	app.Before = setupLogging
	app.After = func(c *cli.Context) error {
		// Only the syslog writer needs closing, stderr output ignores Close.
		return log.DefaultLogger.Out.Close()
	}
	app.Commands = []*cli.Command{
		{
			Name:   "generate-man",
			Hidden: true,
			Action: func(c *cli.Context) error {
				man, err := app.ToMan()
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, man)
				return nil
			},
		},
		{
			Name:   "generate-fish-completion",
			Hidden: true,
			Action: func(c *cli.Context) error {
				cp, err := app.ToFishCompletion()
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, cp)
				return nil
			},
		},
	}
}

func setupLogging(c *cli.Context) error {
	log.DefaultLogger.Name = app.Name
	log.DefaultLogger.Debug = c.Bool("debug")

	if c.Bool("syslog") {
		syslogOut, err := log.SyslogOutput(app.Name)
		if err != nil {
			return fmt.Errorf("cannot connect to syslog: %w", err)
		}
		log.DefaultLogger.Out = log.MultiOutput(log.DefaultLogger.Out, syslogOut)
	}
	return nil
}

func AddSubcommand(cmd *cli.Command) {
	app.Commands = append(app.Commands, cmd)
}

// Execute runs the application with args, writing command output to
// stdout. Errors are returned instead of terminating the process.
func Execute(ctx context.Context, args []string, stdout io.Writer) error {
	prevWriter, prevHandler := app.Writer, app.ExitErrHandler
	defer func() {
		app.Writer, app.ExitErrHandler = prevWriter, prevHandler
	}()

	app.Writer = stdout
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app.RunContext(ctx, args)
}

func Run() {
	// Entry point is cmd/chagectl, subcommands are registered by the ctl
	// package.

	if err := LoadEnvFile(EnvFilePath(os.Args[1:], os.Getenv)); err != nil {
		log.DefaultLogger.Error("cannot load env file", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.DefaultLogger.Error("app.Run failed", err)
	}
}
