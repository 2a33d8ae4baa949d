// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/bluez-dbus/bluez"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
)

var logger = log.NewLogger("bluez-dbus/bluez-client")

func init() {
	bluez.SetLogger(logger)
}

var (
	optDebug       bool
	optAsync       bool
	optWatch       bool
	optSave        bool
	optNoRead      bool
	optConfig      string
	optAdapter     string
	optFormat      string
	optDuration    time.Duration
	optCallTimeout time.Duration
)

func main() {
	flag.BoolVar(&optDebug, "debug", false, "debug mode")
	flag.StringVar(&optConfig, "config", "", "config file, default "+defaultConfigFile)
	flag.StringVar(&optAdapter, "adapter", "", "adapter object path, default the first adapter")
	flag.DurationVar(&optDuration, "duration", defaultDiscoverySeconds*time.Second, "discovery duration")
	flag.DurationVar(&optCallTimeout, "timeout", bluez.DefaultCallTimeout, "timeout of each bus call")
	flag.StringVar(&optFormat, "format", formatText, "output format: text, json or yaml")
	flag.BoolVar(&optAsync, "async", false, "query devices concurrently")
	flag.BoolVar(&optNoRead, "no-read", false, "do not read characteristic values")
	flag.BoolVar(&optWatch, "watch", false, "print changes until interrupted")
	flag.BoolVar(&optSave, "save", false, "save the given options as defaults")
	flag.Parse()
	if optDebug {
		logger.SetLogLevel(log.LevelDebug)
	}

	cfg := newConfig(optConfig)
	cfg.load()
	applyFlags(cfg, setFlags())
	if !isValidFormat(cfg.Format) {
		logger.Warningf("unknown output format %q", cfg.Format)
		os.Exit(2)
	}
	if optSave {
		err := cfg.save()
		if err != nil {
			logger.Warning(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, cfg)
	if err != nil {
		logger.Warning(err)
		stop()
		os.Exit(1)
	}
}

func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// applyFlags lets the flags given on the command line override the
// config file.
func applyFlags(cfg *config, set map[string]bool) {
	if set["adapter"] {
		cfg.Adapter = optAdapter
	}
	if set["duration"] {
		cfg.DiscoverySeconds = wholeSeconds(optDuration)
	}
	if set["timeout"] {
		cfg.CallTimeoutSeconds = wholeSeconds(optCallTimeout)
	}
	if set["format"] {
		cfg.Format = optFormat
	}
	if set["no-read"] {
		cfg.ReadValues = !optNoRead
	}
}

// wholeSeconds rounds a positive d up to whole seconds, so that 500ms
// does not become zero, which disables discovery or restores the default
// timeout.
func wholeSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func run(ctx context.Context, cfg *config) error {
	session, err := bluez.NewSession()
	if err != nil {
		return err
	}
	defer func() {
		_ = session.Close()
	}()
	session.SetCallTimeout(cfg.callTimeout())
	logger.Debug("session:", session)

	adapter, err := selectAdapter(ctx, session, dbus.ObjectPath(cfg.Adapter))
	if err != nil {
		return err
	}

	if optWatch {
		return runWatch(ctx, os.Stdout, session, *adapter)
	}

	err = discover(ctx, *adapter, cfg.discoveryDuration())
	if err != nil {
		return err
	}

	d := &dumper{
		session:    session,
		readValues: cfg.ReadValues,
		async:      optAsync,
	}
	info, err := d.dumpAdapter(ctx, *adapter)
	if err != nil {
		return err
	}
	return writeAdapterInfo(os.Stdout, cfg.Format, info)
}

// selectAdapter returns the adapter at path, or the first adapter when path
// is empty.
func selectAdapter(ctx context.Context, session *bluez.Session, path dbus.ObjectPath) (*bluez.Adapter, error) {
	if path == "" {
		adapters, err := session.Adapters(ctx)
		if err != nil {
			return nil, err
		}
		if len(adapters) == 0 {
			return nil, xerrors.New("no bluetooth adapter found")
		}
		adapter := bluez.NewAdapter(session, adapters[0])
		return &adapter, nil
	}

	if !path.IsValid() {
		return nil, xerrors.Errorf("invalid object path %q", path)
	}
	adapter, err := bluez.LookupAdapter(ctx, session, path)
	if err != nil {
		return nil, err
	}
	if adapter == nil {
		return nil, xerrors.Errorf("%s is not an adapter", path)
	}
	return adapter, nil
}

func discover(ctx context.Context, adapter bluez.Adapter, duration time.Duration) error {
	if duration <= 0 {
		return nil
	}

	err := adapter.StartDiscovery(ctx)
	if err != nil {
		if !bluez.IsBluezError(err, bluez.ErrNameInProgress) {
			return err
		}
		logger.Debug("discovery already running")
	}
	logger.Debugf("discovering on %s for %v", adapter.Path(), duration)

	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	err = adapter.StopDiscovery(ctx)
	if err != nil && !bluez.IsBluezError(err, bluez.ErrNameFailed) {
		return err
	}
	return nil
}
