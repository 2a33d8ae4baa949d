// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/bluez-dbus/bluez"
	"github.com/linuxdeepin/go-lib/strv"
	"golang.org/x/xerrors"
)

// watchedInterfaces are the interfaces whose objects are reported while
// watching; the rest of the tree (media, battery, ...) is ignored.
var watchedInterfaces = strv.Strv{
	bluez.AdapterInterface,
	bluez.DeviceInterface,
	bluez.GattServiceInterface,
	bluez.CharacteristicInterface,
	bluez.DescriptorInterface,
}

func runWatch(ctx context.Context, w io.Writer, session *bluez.Session, adapter bluez.Adapter) error {
	if session.Bus() == nil {
		return xerrors.New("watch needs a system bus connection")
	}

	watcher := bluez.NewWatcher(session.Bus())
	watchEvents(watcher, w, adapter.Path())

	err := watcher.Start()
	if err != nil {
		return err
	}
	defer watcher.Stop()

	err = adapter.StartDiscovery(ctx)
	if err != nil && !bluez.IsBluezError(err, bluez.ErrNameInProgress) {
		return err
	}
	logger.Info("watching", adapter)

	<-ctx.Done()

	// ctx is done, stop discovery with a fresh one
	err = adapter.StopDiscovery(context.Background())
	if err != nil {
		logger.Warning(err)
	}
	return nil
}

// watchEvents prints the events of the objects of one adapter.
func watchEvents(watcher *bluez.Watcher, w io.Writer, adapterPath dbus.ObjectPath) {
	watcher.OnObjectAdded(func(path dbus.ObjectPath, ifaces bluez.InterfaceProperties) {
		if !isAdapterObject(adapterPath, path) {
			return
		}
		if line, ok := formatAdded(path, ifaces); ok {
			fmt.Fprintln(w, line)
		}
	})
	watcher.OnObjectRemoved(func(path dbus.ObjectPath, ifaces []string) {
		if !isAdapterObject(adapterPath, path) {
			return
		}
		if line, ok := formatRemoved(path, ifaces); ok {
			fmt.Fprintln(w, line)
		}
	})
	watcher.OnPropertiesChanged(func(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) {
		if !isAdapterObject(adapterPath, path) {
			return
		}
		for _, line := range formatChanged(path, iface, changed) {
			fmt.Fprintln(w, line)
		}
	})
	watcher.OnValueChanged(func(path dbus.ObjectPath, value []byte) {
		if !isAdapterObject(adapterPath, path) {
			return
		}
		fmt.Fprintf(w, "[VAL] %s %s\n", path, hex.EncodeToString(value))
	})
}

// isAdapterObject reports whether path is the adapter itself or an object
// below it.
func isAdapterObject(adapterPath, path dbus.ObjectPath) bool {
	return path == adapterPath || strings.HasPrefix(string(path), string(adapterPath)+"/")
}

func formatAdded(path dbus.ObjectPath, ifaces bluez.InterfaceProperties) (string, bool) {
	for _, iface := range watchedInterfaces {
		if _, ok := ifaces[iface]; ok {
			return fmt.Sprintf("[NEW] %s %s", shortInterfaceName(iface), path), true
		}
	}
	return "", false
}

func formatRemoved(path dbus.ObjectPath, ifaces []string) (string, bool) {
	for _, iface := range watchedInterfaces {
		if strv.Strv(ifaces).Contains(iface) {
			return fmt.Sprintf("[DEL] %s %s", shortInterfaceName(iface), path), true
		}
	}
	return "", false
}

// formatChanged reports property changes other than Value, which has its
// own event.
func formatChanged(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) []string {
	if !watchedInterfaces.Contains(iface) {
		return nil
	}
	names := make([]string, 0, len(changed))
	for name := range changed {
		if name == "Value" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("[CHG] %s %s %s: %v",
			shortInterfaceName(iface), path, name, changed[name].Value()))
	}
	return lines
}

func shortInterfaceName(iface string) string {
	name := strings.TrimPrefix(iface, "org.bluez.")
	return strings.TrimSuffix(name, "1")
}
