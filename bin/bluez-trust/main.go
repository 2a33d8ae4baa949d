// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/bluez-dbus/bluez"
	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("bluez-dbus/bluez-trust")

func init() {
	bluez.SetLogger(logger)
}

var optDebug bool

func main() {
	flag.BoolVar(&optDebug, "debug", false, "debug mode")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-debug] <device-path>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if optDebug {
		logger.SetLogLevel(log.LevelDebug)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	devPath := dbus.ObjectPath(flag.Arg(0))
	if !devPath.IsValid() {
		logger.Warningf("invalid object path %q", devPath)
		os.Exit(2)
	}

	session, err := bluez.NewSession()
	if err != nil {
		logger.Warning(err)
		os.Exit(1)
	}
	defer func() {
		_ = session.Close()
	}()

	err = toggleTrusted(context.Background(), os.Stdout, bluez.NewDevice(session, devPath))
	if err != nil {
		logger.Warning(err)
		_ = session.Close()
		os.Exit(1)
	}
}

func toggleTrusted(ctx context.Context, w io.Writer, dev bluez.Device) error {
	trusted, err := dev.Trusted(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "now:", trusted)

	err = dev.SetTrusted(ctx, !trusted)
	if err != nil {
		return err
	}

	trusted, err = dev.Trusted(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "change:", trusted)
	return nil
}
