// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"context"

	"github.com/godbus/dbus/v5"
)

var (
	deviceAddress          = newProperty[string](DeviceInterface, "Address")
	deviceName             = newProperty[string](DeviceInterface, "Name")
	deviceIcon             = newProperty[string](DeviceInterface, "Icon")
	deviceClass            = newProperty[uint32](DeviceInterface, "Class")
	deviceAppearance       = newProperty[uint16](DeviceInterface, "Appearance")
	deviceUUIDs            = newProperty[[]string](DeviceInterface, "UUIDs")
	devicePaired           = newProperty[bool](DeviceInterface, "Paired")
	deviceConnected        = newProperty[bool](DeviceInterface, "Connected")
	deviceTrusted          = newWritableProperty[bool](DeviceInterface, "Trusted")
	deviceBlocked          = newWritableProperty[bool](DeviceInterface, "Blocked")
	deviceAlias            = newWritableProperty[string](DeviceInterface, "Alias")
	deviceAdapter          = newProperty[dbus.ObjectPath](DeviceInterface, LinkAdapter)
	deviceLegacyPairing    = newProperty[bool](DeviceInterface, "LegacyPairing")
	deviceModalias         = newProperty[string](DeviceInterface, "Modalias")
	deviceRSSI             = newProperty[int16](DeviceInterface, "RSSI")
	deviceTxPower          = newProperty[int16](DeviceInterface, "TxPower")
	deviceServicesResolved = newProperty[bool](DeviceInterface, "ServicesResolved")
)

// Device is a handle on an org.bluez.Device1 object.
type Device struct {
	session *Session
	path    dbus.ObjectPath
}

func NewDevice(s *Session, path dbus.ObjectPath) Device {
	return Device{session: s, path: path}
}

func (d Device) Path() dbus.ObjectPath {
	return d.path
}

func (d Device) String() string {
	return "Device " + string(d.path)
}

// GattServices returns the paths of the GATT services resolved on the
// device, nil if there is none.
func (d Device) GattServices(ctx context.Context) ([]dbus.ObjectPath, error) {
	return d.session.Children(ctx, d.path, GattServiceInterface, LinkDevice)
}

func (d Device) Connect(ctx context.Context) error {
	return d.call(ctx, "Connect")
}

func (d Device) Disconnect(ctx context.Context) error {
	return d.call(ctx, "Disconnect")
}

func (d Device) ConnectProfile(ctx context.Context, uuid string) error {
	return d.call(ctx, "ConnectProfile", uuid)
}

func (d Device) DisconnectProfile(ctx context.Context, uuid string) error {
	return d.call(ctx, "DisconnectProfile", uuid)
}

func (d Device) Pair(ctx context.Context) error {
	return d.call(ctx, "Pair")
}

func (d Device) CancelPairing(ctx context.Context) error {
	return d.call(ctx, "CancelPairing")
}

func (d Device) Properties(ctx context.Context) (map[string]dbus.Variant, error) {
	return d.session.getAllProperties(ctx, d.path, DeviceInterface)
}

func (d Device) call(ctx context.Context, method string, args ...interface{}) error {
	return d.session.call(ctx, d.path, DeviceInterface+"."+method, nil, args...)
}

func (d Device) Address(ctx context.Context) (string, error) {
	return deviceAddress.get(ctx, d.session, d.path)
}

func (d Device) Name(ctx context.Context) (string, error) {
	return deviceName.get(ctx, d.session, d.path)
}

func (d Device) Icon(ctx context.Context) (string, error) {
	return deviceIcon.get(ctx, d.session, d.path)
}

func (d Device) Class(ctx context.Context) (uint32, error) {
	return deviceClass.get(ctx, d.session, d.path)
}

func (d Device) Appearance(ctx context.Context) (uint16, error) {
	return deviceAppearance.get(ctx, d.session, d.path)
}

func (d Device) UUIDs(ctx context.Context) ([]string, error) {
	return deviceUUIDs.get(ctx, d.session, d.path)
}

func (d Device) Paired(ctx context.Context) (bool, error) {
	return devicePaired.get(ctx, d.session, d.path)
}

func (d Device) Connected(ctx context.Context) (bool, error) {
	return deviceConnected.get(ctx, d.session, d.path)
}

func (d Device) Trusted(ctx context.Context) (bool, error) {
	return deviceTrusted.get(ctx, d.session, d.path)
}

func (d Device) SetTrusted(ctx context.Context, value bool) error {
	return deviceTrusted.set(ctx, d.session, d.path, value)
}

func (d Device) Blocked(ctx context.Context) (bool, error) {
	return deviceBlocked.get(ctx, d.session, d.path)
}

func (d Device) SetBlocked(ctx context.Context, value bool) error {
	return deviceBlocked.set(ctx, d.session, d.path, value)
}

func (d Device) Alias(ctx context.Context) (string, error) {
	return deviceAlias.get(ctx, d.session, d.path)
}

func (d Device) SetAlias(ctx context.Context, value string) error {
	return deviceAlias.set(ctx, d.session, d.path, value)
}

// Adapter returns the path of the adapter the device belongs to.
func (d Device) Adapter(ctx context.Context) (dbus.ObjectPath, error) {
	return deviceAdapter.get(ctx, d.session, d.path)
}

func (d Device) LegacyPairing(ctx context.Context) (bool, error) {
	return deviceLegacyPairing.get(ctx, d.session, d.path)
}

func (d Device) Modalias(ctx context.Context) (string, error) {
	return deviceModalias.get(ctx, d.session, d.path)
}

// RSSI is only present while the device is seen by a discovery.
func (d Device) RSSI(ctx context.Context) (int16, error) {
	return deviceRSSI.get(ctx, d.session, d.path)
}

func (d Device) TxPower(ctx context.Context) (int16, error) {
	return deviceTxPower.get(ctx, d.session, d.path)
}

func (d Device) ServicesResolved(ctx context.Context) (bool, error) {
	return deviceServicesResolved.get(ctx, d.session, d.path)
}
