// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"context"

	"github.com/godbus/dbus/v5"
)

var (
	serviceUUID     = newProperty[string](GattServiceInterface, "UUID")
	servicePrimary  = newProperty[bool](GattServiceInterface, "Primary")
	serviceDevice   = newProperty[dbus.ObjectPath](GattServiceInterface, LinkDevice)
	serviceIncludes = newProperty[[]dbus.ObjectPath](GattServiceInterface, "Includes")

	characteristicUUID      = newProperty[string](CharacteristicInterface, "UUID")
	characteristicService   = newProperty[dbus.ObjectPath](CharacteristicInterface, LinkService)
	characteristicValue     = newProperty[[]byte](CharacteristicInterface, "Value")
	characteristicNotifying = newProperty[bool](CharacteristicInterface, "Notifying")
	characteristicFlags     = newProperty[[]string](CharacteristicInterface, "Flags")

	descriptorUUID           = newProperty[string](DescriptorInterface, "UUID")
	descriptorCharacteristic = newProperty[dbus.ObjectPath](DescriptorInterface, LinkCharacteristic)
	descriptorValue          = newProperty[[]byte](DescriptorInterface, "Value")
	descriptorFlags          = newProperty[[]string](DescriptorInterface, "Flags")
)

// write types accepted in the "type" option of WriteValue
const (
	writeTypeCommand = "command"
	writeTypeRequest = "request"
)

// GattService is a handle on an org.bluez.GattService1 object.
type GattService struct {
	session *Session
	path    dbus.ObjectPath
}

func NewGattService(s *Session, path dbus.ObjectPath) GattService {
	return GattService{session: s, path: path}
}

func (g GattService) Path() dbus.ObjectPath {
	return g.path
}

func (g GattService) String() string {
	return "GattService " + string(g.path)
}

// Characteristics returns the paths of the characteristics of the
// service, nil if there is none.
func (g GattService) Characteristics(ctx context.Context) ([]dbus.ObjectPath, error) {
	return g.session.Children(ctx, g.path, CharacteristicInterface, LinkService)
}

func (g GattService) Properties(ctx context.Context) (map[string]dbus.Variant, error) {
	return g.session.getAllProperties(ctx, g.path, GattServiceInterface)
}

func (g GattService) UUID(ctx context.Context) (string, error) {
	return serviceUUID.get(ctx, g.session, g.path)
}

func (g GattService) Primary(ctx context.Context) (bool, error) {
	return servicePrimary.get(ctx, g.session, g.path)
}

func (g GattService) Device(ctx context.Context) (dbus.ObjectPath, error) {
	return serviceDevice.get(ctx, g.session, g.path)
}

func (g GattService) Includes(ctx context.Context) ([]dbus.ObjectPath, error) {
	return serviceIncludes.get(ctx, g.session, g.path)
}

// Characteristic is a handle on an org.bluez.GattCharacteristic1 object.
type Characteristic struct {
	session *Session
	path    dbus.ObjectPath
}

func NewCharacteristic(s *Session, path dbus.ObjectPath) Characteristic {
	return Characteristic{session: s, path: path}
}

func (c Characteristic) Path() dbus.ObjectPath {
	return c.path
}

func (c Characteristic) String() string {
	return "Characteristic " + string(c.path)
}

func (c Characteristic) Descriptors(ctx context.Context) ([]dbus.ObjectPath, error) {
	return c.session.Children(ctx, c.path, DescriptorInterface, LinkCharacteristic)
}

func (c Characteristic) ReadValue(ctx context.Context) ([]byte, error) {
	return readValue(ctx, c.session, c.path, CharacteristicInterface)
}

// WriteValue writes with response.
func (c Characteristic) WriteValue(ctx context.Context, value []byte) error {
	return writeValue(ctx, c.session, c.path, CharacteristicInterface, value, writeTypeRequest)
}

// WriteCommand writes without response.
func (c Characteristic) WriteCommand(ctx context.Context, value []byte) error {
	return writeValue(ctx, c.session, c.path, CharacteristicInterface, value, writeTypeCommand)
}

// StartNotify makes the daemon publish value updates as PropertiesChanged
// signals, see Watcher.OnValueChanged.
func (c Characteristic) StartNotify(ctx context.Context) error {
	return c.session.call(ctx, c.path, CharacteristicInterface+".StartNotify", nil)
}

func (c Characteristic) StopNotify(ctx context.Context) error {
	return c.session.call(ctx, c.path, CharacteristicInterface+".StopNotify", nil)
}

func (c Characteristic) Properties(ctx context.Context) (map[string]dbus.Variant, error) {
	return c.session.getAllProperties(ctx, c.path, CharacteristicInterface)
}

func (c Characteristic) UUID(ctx context.Context) (string, error) {
	return characteristicUUID.get(ctx, c.session, c.path)
}

func (c Characteristic) Service(ctx context.Context) (dbus.ObjectPath, error) {
	return characteristicService.get(ctx, c.session, c.path)
}

// Value is the cached value, updated by reads and notifications.
func (c Characteristic) Value(ctx context.Context) ([]byte, error) {
	return characteristicValue.get(ctx, c.session, c.path)
}

func (c Characteristic) Notifying(ctx context.Context) (bool, error) {
	return characteristicNotifying.get(ctx, c.session, c.path)
}

func (c Characteristic) Flags(ctx context.Context) ([]string, error) {
	return characteristicFlags.get(ctx, c.session, c.path)
}

// Descriptor is a handle on an org.bluez.GattDescriptor1 object.
type Descriptor struct {
	session *Session
	path    dbus.ObjectPath
}

func NewDescriptor(s *Session, path dbus.ObjectPath) Descriptor {
	return Descriptor{session: s, path: path}
}

func (d Descriptor) Path() dbus.ObjectPath {
	return d.path
}

func (d Descriptor) String() string {
	return "Descriptor " + string(d.path)
}

func (d Descriptor) ReadValue(ctx context.Context) ([]byte, error) {
	return readValue(ctx, d.session, d.path, DescriptorInterface)
}

func (d Descriptor) WriteValue(ctx context.Context, value []byte) error {
	return writeValue(ctx, d.session, d.path, DescriptorInterface, value, "")
}

func (d Descriptor) Properties(ctx context.Context) (map[string]dbus.Variant, error) {
	return d.session.getAllProperties(ctx, d.path, DescriptorInterface)
}

func (d Descriptor) UUID(ctx context.Context) (string, error) {
	return descriptorUUID.get(ctx, d.session, d.path)
}

func (d Descriptor) Characteristic(ctx context.Context) (dbus.ObjectPath, error) {
	return descriptorCharacteristic.get(ctx, d.session, d.path)
}

func (d Descriptor) Value(ctx context.Context) ([]byte, error) {
	return descriptorValue.get(ctx, d.session, d.path)
}

func (d Descriptor) Flags(ctx context.Context) ([]string, error) {
	return descriptorFlags.get(ctx, d.session, d.path)
}

func readValue(ctx context.Context, s *Session, path dbus.ObjectPath, iface string) ([]byte, error) {
	var value []byte
	options := map[string]dbus.Variant{}
	err := s.call(ctx, path, iface+".ReadValue", []interface{}{&value}, options)
	if err != nil {
		return nil, err
	}
	return value, nil
}

func writeValue(ctx context.Context, s *Session, path dbus.ObjectPath, iface string,
	value []byte, writeType string) error {
	options := map[string]dbus.Variant{}
	if writeType != "" {
		options["type"] = dbus.MakeVariant(writeType)
	}
	return s.call(ctx, path, iface+".WriteValue", nil, value, options)
}
