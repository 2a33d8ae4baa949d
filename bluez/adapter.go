// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"context"

	"github.com/godbus/dbus/v5"
)

var (
	adapterAddress             = newProperty[string](AdapterInterface, "Address")
	adapterName                = newProperty[string](AdapterInterface, "Name")
	adapterAlias               = newWritableProperty[string](AdapterInterface, "Alias")
	adapterClass               = newProperty[uint32](AdapterInterface, "Class")
	adapterPowered             = newWritableProperty[bool](AdapterInterface, "Powered")
	adapterDiscoverable        = newWritableProperty[bool](AdapterInterface, "Discoverable")
	adapterPairable            = newWritableProperty[bool](AdapterInterface, "Pairable")
	adapterPairableTimeout     = newWritableProperty[uint32](AdapterInterface, "PairableTimeout")
	adapterDiscoverableTimeout = newWritableProperty[uint32](AdapterInterface, "DiscoverableTimeout")
	adapterDiscovering         = newProperty[bool](AdapterInterface, "Discovering")
	adapterUUIDs               = newProperty[[]string](AdapterInterface, "UUIDs")
	adapterModalias            = newProperty[string](AdapterInterface, "Modalias")
)

// Adapter is a handle on an org.bluez.Adapter1 object.
type Adapter struct {
	session *Session
	path    dbus.ObjectPath
}

// NewAdapter returns a handle on path without checking that it exists.
func NewAdapter(s *Session, path dbus.ObjectPath) Adapter {
	return Adapter{session: s, path: path}
}

// LookupAdapter returns a handle on path if the current snapshot has an
// adapter there, nil otherwise.
func LookupAdapter(ctx context.Context, s *Session, path dbus.ObjectPath) (*Adapter, error) {
	ok, err := s.hasObject(ctx, path, AdapterInterface)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	a := NewAdapter(s, path)
	return &a, nil
}

func (a Adapter) Path() dbus.ObjectPath {
	return a.path
}

func (a Adapter) String() string {
	return "Adapter " + string(a.path)
}

// Devices returns the paths of the devices known by the adapter, nil if
// there is none.
func (a Adapter) Devices(ctx context.Context) ([]dbus.ObjectPath, error) {
	return a.session.Children(ctx, a.path, DeviceInterface, LinkAdapter)
}

func (a Adapter) StartDiscovery(ctx context.Context) error {
	return a.call(ctx, "StartDiscovery")
}

func (a Adapter) StopDiscovery(ctx context.Context) error {
	return a.call(ctx, "StopDiscovery")
}

func (a Adapter) RemoveDevice(ctx context.Context, device dbus.ObjectPath) error {
	return a.call(ctx, "RemoveDevice", device)
}

// SetDiscoveryFilter restricts the following discoveries of this client.
// A zero filter clears it.
func (a Adapter) SetDiscoveryFilter(ctx context.Context, filter DiscoveryFilter) error {
	return a.call(ctx, "SetDiscoveryFilter", filter.toMap())
}

// Properties returns every property of the adapter in one call.
func (a Adapter) Properties(ctx context.Context) (map[string]dbus.Variant, error) {
	return a.session.getAllProperties(ctx, a.path, AdapterInterface)
}

func (a Adapter) call(ctx context.Context, method string, args ...interface{}) error {
	return a.session.call(ctx, a.path, AdapterInterface+"."+method, nil, args...)
}

func (a Adapter) Address(ctx context.Context) (string, error) {
	return adapterAddress.get(ctx, a.session, a.path)
}

func (a Adapter) Name(ctx context.Context) (string, error) {
	return adapterName.get(ctx, a.session, a.path)
}

func (a Adapter) Alias(ctx context.Context) (string, error) {
	return adapterAlias.get(ctx, a.session, a.path)
}

func (a Adapter) SetAlias(ctx context.Context, value string) error {
	return adapterAlias.set(ctx, a.session, a.path, value)
}

func (a Adapter) Class(ctx context.Context) (uint32, error) {
	return adapterClass.get(ctx, a.session, a.path)
}

func (a Adapter) Powered(ctx context.Context) (bool, error) {
	return adapterPowered.get(ctx, a.session, a.path)
}

func (a Adapter) SetPowered(ctx context.Context, value bool) error {
	return adapterPowered.set(ctx, a.session, a.path, value)
}

func (a Adapter) Discoverable(ctx context.Context) (bool, error) {
	return adapterDiscoverable.get(ctx, a.session, a.path)
}

func (a Adapter) SetDiscoverable(ctx context.Context, value bool) error {
	return adapterDiscoverable.set(ctx, a.session, a.path, value)
}

func (a Adapter) Pairable(ctx context.Context) (bool, error) {
	return adapterPairable.get(ctx, a.session, a.path)
}

func (a Adapter) SetPairable(ctx context.Context, value bool) error {
	return adapterPairable.set(ctx, a.session, a.path, value)
}

// PairableTimeout is in seconds, 0 means forever.
func (a Adapter) PairableTimeout(ctx context.Context) (uint32, error) {
	return adapterPairableTimeout.get(ctx, a.session, a.path)
}

func (a Adapter) SetPairableTimeout(ctx context.Context, value uint32) error {
	return adapterPairableTimeout.set(ctx, a.session, a.path, value)
}

// DiscoverableTimeout is in seconds, 0 means forever.
func (a Adapter) DiscoverableTimeout(ctx context.Context) (uint32, error) {
	return adapterDiscoverableTimeout.get(ctx, a.session, a.path)
}

func (a Adapter) SetDiscoverableTimeout(ctx context.Context, value uint32) error {
	return adapterDiscoverableTimeout.set(ctx, a.session, a.path, value)
}

func (a Adapter) Discovering(ctx context.Context) (bool, error) {
	return adapterDiscovering.get(ctx, a.session, a.path)
}

func (a Adapter) UUIDs(ctx context.Context) ([]string, error) {
	return adapterUUIDs.get(ctx, a.session, a.path)
}

func (a Adapter) Modalias(ctx context.Context) (string, error) {
	return adapterModalias.get(ctx, a.session, a.path)
}
