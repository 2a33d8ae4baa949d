// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"github.com/stretchr/testify/assert"
)

const testCharPath = dbus.ObjectPath("/org/bluez/hci0/dev_AA/service0001/char0002")

func newPropsChangedSignal(path dbus.ObjectPath, body ...interface{}) *dbus.Signal {
	return &dbus.Signal{
		Sender: ":1.3",
		Path:   path,
		Name:   "org.freedesktop.DBus.Properties.PropertiesChanged",
		Body:   body,
	}
}

func TestParsePropertiesChanged(t *testing.T) {
	sig := newPropsChangedSignal(testDevicePath, DeviceInterface,
		map[string]dbus.Variant{"RSSI": dbus.MakeVariant(int16(-59))}, []string{})
	iface, changed, ok := parsePropertiesChanged(sig)
	assert.True(t, ok)
	assert.Equal(t, DeviceInterface, iface)
	assert.Equal(t, dbus.MakeVariant(int16(-59)), changed["RSSI"])

	_, _, ok = parsePropertiesChanged(newPropsChangedSignal("/org/freedesktop/NetworkManager",
		"org.freedesktop.NetworkManager", map[string]dbus.Variant{}, []string{}))
	assert.False(t, ok)

	_, _, ok = parsePropertiesChanged(newPropsChangedSignal(testDevicePath, DeviceInterface))
	assert.False(t, ok)

	_, _, ok = parsePropertiesChanged(newPropsChangedSignal(testDevicePath, uint32(1),
		map[string]dbus.Variant{}, []string{}))
	assert.False(t, ok)

	_, _, ok = parsePropertiesChanged(newPropsChangedSignal(testDevicePath, DeviceInterface,
		map[string]string{"Alias": "x"}, []string{}))
	assert.False(t, ok)

	sig = newPropsChangedSignal(testDevicePath, DeviceInterface, map[string]dbus.Variant{}, []string{})
	sig.Name = "org.freedesktop.DBus.ObjectManager.InterfacesAdded"
	_, _, ok = parsePropertiesChanged(sig)
	assert.False(t, ok)
}

func TestValueFromChanged(t *testing.T) {
	value, ok := valueFromChanged(CharacteristicInterface,
		map[string]dbus.Variant{"Value": dbus.MakeVariant([]byte{0x06, 0x48})})
	assert.True(t, ok)
	assert.Equal(t, []byte{0x06, 0x48}, value)

	value, ok = valueFromChanged(DescriptorInterface,
		map[string]dbus.Variant{"Value": dbus.MakeVariant([]byte{0x01})})
	assert.True(t, ok)
	assert.Equal(t, []byte{0x01}, value)

	_, ok = valueFromChanged(CharacteristicInterface,
		map[string]dbus.Variant{"Notifying": dbus.MakeVariant(true)})
	assert.False(t, ok)

	_, ok = valueFromChanged(CharacteristicInterface,
		map[string]dbus.Variant{"Value": dbus.MakeVariant("text")})
	assert.False(t, ok)

	_, ok = valueFromChanged(DeviceInterface,
		map[string]dbus.Variant{"Value": dbus.MakeVariant([]byte{0x01})})
	assert.False(t, ok)
}

func TestWatcherDispatch(t *testing.T) {
	w := &Watcher{}

	var gotPath dbus.ObjectPath
	var gotValue []byte
	var propsCount int
	w.OnValueChanged(func(path dbus.ObjectPath, value []byte) {
		gotPath = path
		gotValue = value
	})
	w.OnPropertiesChanged(func(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) {
		propsCount++
	})

	w.handlePropertiesChanged(newPropsChangedSignal(testCharPath, CharacteristicInterface,
		map[string]dbus.Variant{"Value": dbus.MakeVariant([]byte{0x2a})}, []string{}))
	assert.Equal(t, testCharPath, gotPath)
	assert.Equal(t, []byte{0x2a}, gotValue)
	assert.Equal(t, 1, propsCount)

	gotPath = ""
	w.handlePropertiesChanged(newPropsChangedSignal(testDevicePath, DeviceInterface,
		map[string]dbus.Variant{"Connected": dbus.MakeVariant(true)}, []string{}))
	assert.Equal(t, dbus.ObjectPath(""), gotPath)
	assert.Equal(t, 2, propsCount)

	var added, removed []dbus.ObjectPath
	w.OnObjectAdded(func(path dbus.ObjectPath, ifaces InterfaceProperties) {
		added = append(added, path)
	})
	w.OnObjectRemoved(func(path dbus.ObjectPath, ifaces []string) {
		removed = append(removed, path)
	})
	w.handleInterfacesAdded(testDevicePath, InterfaceProperties{DeviceInterface: {}})
	w.handleInterfacesRemoved(testDevicePath, []string{DeviceInterface})
	assert.Equal(t, []dbus.ObjectPath{testDevicePath}, added)
	assert.Equal(t, []dbus.ObjectPath{testDevicePath}, removed)
}

// signalHandlers stands in for the signal loop handler table.
type signalHandlers struct {
	nextID   int
	handlers map[int]func(*dbus.Signal)
}

func newSignalHandlers() *signalHandlers {
	return &signalHandlers{handlers: make(map[int]func(*dbus.Signal))}
}

func (h *signalHandlers) subscribe(rule *dbusutil.SignalRule, cb func(*dbus.Signal)) func() {
	id := h.nextID
	h.nextID++
	h.handlers[id] = cb
	return func() {
		delete(h.handlers, id)
	}
}

func (h *signalHandlers) emit(sig *dbus.Signal) {
	for _, cb := range h.handlers {
		cb(sig)
	}
}

func TestWatcherRestartKeepsOneHandler(t *testing.T) {
	handlers := newSignalHandlers()
	w := &Watcher{subscribe: handlers.subscribe}

	var propsCount, valueCount int
	w.OnPropertiesChanged(func(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) {
		propsCount++
	})
	w.OnValueChanged(func(path dbus.ObjectPath, value []byte) {
		valueCount++
	})
	sig := newPropsChangedSignal(testCharPath, CharacteristicInterface,
		map[string]dbus.Variant{"Value": dbus.MakeVariant([]byte{0x01})}, []string{})

	w.connectPropertiesChanged()
	w.connectPropertiesChanged()
	assert.Len(t, handlers.handlers, 1)
	handlers.emit(sig)
	assert.Equal(t, 1, propsCount)
	assert.Equal(t, 1, valueCount)

	// stop and start again
	w.disconnectPropertiesChanged()
	assert.Empty(t, handlers.handlers)
	w.connectPropertiesChanged()
	assert.Len(t, handlers.handlers, 1)

	handlers.emit(sig)
	assert.Equal(t, 2, propsCount)
	assert.Equal(t, 2, valueCount)

	w.disconnectPropertiesChanged()
	w.disconnectPropertiesChanged()
	handlers.emit(sig)
	assert.Equal(t, 2, propsCount)
}
