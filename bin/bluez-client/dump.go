// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/bluez-dbus/bluez"
	"github.com/linuxdeepin/go-lib/strv"
	"golang.org/x/sync/errgroup"
)

type adapterInfo struct {
	Path        dbus.ObjectPath `json:"path" yaml:"path"`
	Address     string          `json:"address" yaml:"address"`
	Alias       string          `json:"alias" yaml:"alias"`
	Powered     bool            `json:"powered" yaml:"powered"`
	Discovering bool            `json:"discovering" yaml:"discovering"`
	Devices     []*deviceInfo   `json:"devices" yaml:"devices"`
}

type deviceInfo struct {
	Path      dbus.ObjectPath `json:"path" yaml:"path"`
	Address   string          `json:"address" yaml:"address"`
	Name      string          `json:"name,omitempty" yaml:"name,omitempty"`
	Alias     string          `json:"alias,omitempty" yaml:"alias,omitempty"`
	Icon      string          `json:"icon,omitempty" yaml:"icon,omitempty"`
	RSSI      *int16          `json:"rssi,omitempty" yaml:"rssi,omitempty"`
	Paired    bool            `json:"paired" yaml:"paired"`
	Connected bool            `json:"connected" yaml:"connected"`
	Trusted   bool            `json:"trusted" yaml:"trusted"`
	Services  []*serviceInfo  `json:"services,omitempty" yaml:"services,omitempty"`
}

type serviceInfo struct {
	Path            dbus.ObjectPath       `json:"path" yaml:"path"`
	UUID            string                `json:"uuid" yaml:"uuid"`
	Primary         bool                  `json:"primary" yaml:"primary"`
	Characteristics []*characteristicInfo `json:"characteristics,omitempty" yaml:"characteristics,omitempty"`
}

type characteristicInfo struct {
	Path        dbus.ObjectPath   `json:"path" yaml:"path"`
	UUID        string            `json:"uuid" yaml:"uuid"`
	Flags       []string          `json:"flags,omitempty" yaml:"flags,omitempty"`
	Value       []byte            `json:"value,omitempty" yaml:"value,omitempty"`
	Descriptors []*descriptorInfo `json:"descriptors,omitempty" yaml:"descriptors,omitempty"`
}

type descriptorInfo struct {
	Path dbus.ObjectPath `json:"path" yaml:"path"`
	UUID string          `json:"uuid" yaml:"uuid"`
}

// dumper walks one adapter subtree and collects it for output.
type dumper struct {
	session    *bluez.Session
	readValues bool
	async      bool
}

func (d *dumper) dumpAdapter(ctx context.Context, adapter bluez.Adapter) (*adapterInfo, error) {
	info := &adapterInfo{Path: adapter.Path()}
	var err error
	info.Address, err = adapter.Address(ctx)
	if err != nil {
		return nil, err
	}
	info.Alias, err = adapter.Alias(ctx)
	if err != nil {
		return nil, err
	}
	info.Powered, err = adapter.Powered(ctx)
	if err != nil {
		return nil, err
	}
	info.Discovering, err = adapter.Discovering(ctx)
	if err != nil {
		return nil, err
	}

	devicePaths, err := adapter.Devices(ctx)
	if err != nil {
		return nil, err
	}
	info.Devices = make([]*deviceInfo, len(devicePaths))

	if !d.async {
		for i, devicePath := range devicePaths {
			info.Devices[i], err = d.dumpDevice(ctx, bluez.NewDevice(d.session, devicePath))
			if err != nil {
				return nil, err
			}
		}
		return info, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, devicePath := range devicePaths {
		i, device := i, bluez.NewDevice(d.session, devicePath)
		g.Go(func() error {
			dev, err := d.dumpDevice(gctx, device)
			if err != nil {
				return err
			}
			info.Devices[i] = dev
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (d *dumper) dumpDevice(ctx context.Context, device bluez.Device) (*deviceInfo, error) {
	props, err := device.Properties(ctx)
	if err != nil {
		if bluez.IsUnknownObject(err) {
			// removed while discovery was running
			logger.Debug("device gone:", device.Path())
			return &deviceInfo{Path: device.Path(), Address: bluez.AddressFromPath(device.Path())}, nil
		}
		return nil, err
	}

	info := &deviceInfo{
		Path:      device.Path(),
		Address:   propString(props, "Address"),
		Name:      propString(props, "Name"),
		Alias:     propString(props, "Alias"),
		Icon:      propString(props, "Icon"),
		Paired:    propBool(props, "Paired"),
		Connected: propBool(props, "Connected"),
		Trusted:   propBool(props, "Trusted"),
	}
	if v, ok := props["RSSI"]; ok {
		var rssi int16
		if dbus.Store([]interface{}{v.Value()}, &rssi) == nil {
			info.RSSI = &rssi
		}
	}
	if info.Address == "" {
		info.Address = bluez.AddressFromPath(device.Path())
	}

	servicePaths, err := device.GattServices(ctx)
	if err != nil {
		return nil, err
	}
	for _, servicePath := range servicePaths {
		svc, err := d.dumpService(ctx, bluez.NewGattService(d.session, servicePath))
		if err != nil {
			return nil, err
		}
		info.Services = append(info.Services, svc)
	}
	return info, nil
}

func (d *dumper) dumpService(ctx context.Context, service bluez.GattService) (*serviceInfo, error) {
	info := &serviceInfo{Path: service.Path()}
	var err error
	info.UUID, err = service.UUID(ctx)
	if err != nil {
		return nil, err
	}
	info.Primary, err = service.Primary(ctx)
	if err != nil {
		return nil, err
	}

	charPaths, err := service.Characteristics(ctx)
	if err != nil {
		return nil, err
	}
	for _, charPath := range charPaths {
		char, err := d.dumpCharacteristic(ctx, bluez.NewCharacteristic(d.session, charPath))
		if err != nil {
			return nil, err
		}
		info.Characteristics = append(info.Characteristics, char)
	}
	return info, nil
}

func (d *dumper) dumpCharacteristic(ctx context.Context, char bluez.Characteristic) (*characteristicInfo, error) {
	info := &characteristicInfo{Path: char.Path()}
	var err error
	info.UUID, err = char.UUID(ctx)
	if err != nil {
		return nil, err
	}
	info.Flags, err = char.Flags(ctx)
	if err != nil {
		return nil, err
	}

	if d.readValues && strv.Strv(info.Flags).Contains("read") {
		value, err := char.ReadValue(ctx)
		if err != nil {
			// reads may need pairing or encryption
			logger.Warningf("read %s: %v", char.Path(), err)
		} else {
			info.Value = value
		}
	}

	descPaths, err := char.Descriptors(ctx)
	if err != nil {
		return nil, err
	}
	for _, descPath := range descPaths {
		desc := bluez.NewDescriptor(d.session, descPath)
		uuid, err := desc.UUID(ctx)
		if err != nil {
			return nil, err
		}
		info.Descriptors = append(info.Descriptors, &descriptorInfo{Path: descPath, UUID: uuid})
	}
	return info, nil
}

func propString(props map[string]dbus.Variant, name string) string {
	v, ok := props[name]
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

func propBool(props map[string]dbus.Variant, name string) bool {
	v, ok := props[name]
	if !ok {
		return false
	}
	b, _ := v.Value().(bool)
	return b
}
