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

// Command chage-module is a configuration management module that reports
// and changes the expiration date of one account.
//
// It is invoked with the path of a JSON file holding its arguments:
//
//	{"user": "john", "expire_date": "2025-01-01", "_ansible_check_mode": false}
//
// and prints a single JSON object with the result.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/foxcpp/chagectl/framework/log"
	"github.com/foxcpp/chagectl/internal/account"
	"github.com/foxcpp/chagectl/internal/chage"
	chagecli "github.com/foxcpp/chagectl/internal/cli"
	"github.com/foxcpp/chagectl/internal/modproto"
)

func main() {
	if err := chagecli.LoadEnvFile(chagecli.EnvFilePath(nil, os.Getenv)); err != nil {
		log.DefaultLogger.Error("cannot load env file", err)
	}

	debug, err := chagecli.EnvBool(os.Getenv, "CHAGECTL_DEBUG")
	if err != nil {
		log.DefaultLogger.Error("ignoring CHAGECTL_DEBUG", err)
	}
	logger := log.Logger{
		Out:   log.WriterOutput(os.Stderr, false),
		Name:  "chage-module",
		Debug: debug,
	}
	// Module runs are recorded in the system log the same way chage(1)
	// records its own changes.
	if syslogOut, err := log.SyslogOutput("chage-module"); err == nil {
		logger.Out = log.MultiOutput(logger.Out, syslogOut)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := modproto.Main(ctx, os.Args, os.Stdin, os.Stdout, account.Capabilities{
		Source: account.ShadowSource{Path: os.Getenv("CHAGECTL_SHADOW_FILE")},
		Runner: chage.Exec{Path: os.Getenv("CHAGECTL_CHAGE_PATH"), Log: logger.Sublogger("chage")},
		Log:    logger,
	})

	if path := os.Getenv("CHAGECTL_METRICS_FILE"); path != "" {
		if err := account.WriteMetrics(path); err != nil {
			logger.Error("cannot write metrics", err, "path", path)
		}
	}

	stop()
	logger.Out.Close()
	os.Exit(code)
}
