// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"github.com/godbus/dbus/v5"
)

const (
	TransportAuto  = "auto"
	TransportBREDR = "bredr"
	TransportLE    = "le"
)

// DiscoveryFilter is the argument of Adapter.SetDiscoveryFilter. Zero
// fields are left out of the request and keep the daemon defaults.
type DiscoveryFilter struct {
	UUIDs         []string
	RSSI          *int16
	Pathloss      *uint16
	Transport     string
	DuplicateData *bool
	Discoverable  *bool
	Pattern       string
}

func (f DiscoveryFilter) toMap() map[string]dbus.Variant {
	m := make(map[string]dbus.Variant)
	if len(f.UUIDs) > 0 {
		m["UUIDs"] = dbus.MakeVariant(f.UUIDs)
	}
	// RSSI and Pathloss are exclusive, RSSI wins
	if f.RSSI != nil {
		m["RSSI"] = dbus.MakeVariant(*f.RSSI)
	} else if f.Pathloss != nil {
		m["Pathloss"] = dbus.MakeVariant(*f.Pathloss)
	}
	if f.Transport != "" {
		m["Transport"] = dbus.MakeVariant(f.Transport)
	}
	if f.DuplicateData != nil {
		m["DuplicateData"] = dbus.MakeVariant(*f.DuplicateData)
	}
	if f.Discoverable != nil {
		m["Discoverable"] = dbus.MakeVariant(*f.Discoverable)
	}
	if f.Pattern != "" {
		m["Pattern"] = dbus.MakeVariant(f.Pattern)
	}
	return m
}
