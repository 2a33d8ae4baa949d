// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"context"

	"github.com/godbus/dbus/v5"
	"golang.org/x/xerrors"
)

// property describes one read only property of a BlueZ interface.
type property[T any] struct {
	iface string
	name  string
}

func newProperty[T any](iface, name string) property[T] {
	return property[T]{iface: iface, name: name}
}

func (p property[T]) get(ctx context.Context, s *Session, path dbus.ObjectPath) (T, error) {
	var value T
	var v dbus.Variant
	err := s.call(ctx, path, methodPropertiesGet, []interface{}{&v}, p.iface, p.name)
	if err != nil {
		return value, err
	}

	err = dbus.Store([]interface{}{v.Value()}, &value)
	if err != nil {
		return value, &CallError{
			Path:   path,
			Method: methodPropertiesGet,
			Err:    xerrors.Errorf("property %s.%s: %w", p.iface, p.name, err),
		}
	}
	return value, nil
}

type writableProperty[T any] struct {
	property[T]
}

func newWritableProperty[T any](iface, name string) writableProperty[T] {
	return writableProperty[T]{property[T]{iface: iface, name: name}}
}

func (p writableProperty[T]) set(ctx context.Context, s *Session, path dbus.ObjectPath, value T) error {
	return s.call(ctx, path, methodPropertiesSet, nil, p.iface, p.name, dbus.MakeVariant(value))
}
