// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"strings"

	"github.com/godbus/dbus/v5"
)

const devicePathPrefix = "dev_"

// AddressFromPath extracts the hardware address from a device path, e.g.
// /org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF gives AA:BB:CC:DD:EE:FF. GATT
// objects below a device give the address of that device. It returns ""
// for paths without a device element.
func AddressFromPath(path dbus.ObjectPath) string {
	for _, elem := range strings.Split(string(path), "/") {
		if strings.HasPrefix(elem, devicePathPrefix) && len(elem) > len(devicePathPrefix) {
			return strings.ReplaceAll(elem[len(devicePathPrefix):], "_", ":")
		}
	}
	return ""
}

// DevicePath returns the path BlueZ uses for the device addr below adapter.
func DevicePath(adapter dbus.ObjectPath, addr string) dbus.ObjectPath {
	elem := devicePathPrefix + strings.ReplaceAll(strings.ToUpper(addr), ":", "_")
	return dbus.ObjectPath(string(adapter) + "/" + elem)
}
