// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	ServiceName = "org.bluez"
	RootPath    = dbus.ObjectPath("/")
)

const (
	AdapterInterface        = "org.bluez.Adapter1"
	DeviceInterface         = "org.bluez.Device1"
	GattServiceInterface    = "org.bluez.GattService1"
	CharacteristicInterface = "org.bluez.GattCharacteristic1"
	DescriptorInterface     = "org.bluez.GattDescriptor1"
)

// properties naming the parent object of a child interface
const (
	LinkAdapter        = "Adapter"        // on Device1
	LinkDevice         = "Device"         // on GattService1
	LinkService        = "Service"        // on GattCharacteristic1
	LinkCharacteristic = "Characteristic" // on GattDescriptor1
)

const (
	objectManagerInterface = "org.freedesktop.DBus.ObjectManager"
	propertiesInterface    = "org.freedesktop.DBus.Properties"

	methodGetManagedObjects = objectManagerInterface + ".GetManagedObjects"
	methodPropertiesGet     = propertiesInterface + ".Get"
	methodPropertiesGetAll  = propertiesInterface + ".GetAll"
	methodPropertiesSet     = propertiesInterface + ".Set"

	memberPropertiesChanged = "PropertiesChanged"
)

// DefaultCallTimeout bounds every bus round trip of a Session.
const DefaultCallTimeout = 10 * time.Second
