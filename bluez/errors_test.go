// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"
)

func TestCallError(t *testing.T) {
	cause := dbus.Error{Name: ErrNameNotReady, Body: []interface{}{"Resource Not Ready"}}
	err := &CallError{Path: testAdapterPath, Method: "org.bluez.Adapter1.StartDiscovery", Err: cause}

	assert.Equal(t, "call org.bluez.Adapter1.StartDiscovery on /org/bluez/hci0: Resource Not Ready", err.Error())
	assert.True(t, IsBluezError(err, ErrNameNotReady))
	assert.True(t, IsBluezError(xerrors.Errorf("start: %w", err), ErrNameNotReady))
	assert.False(t, IsBluezError(err, ErrNameFailed))
	assert.False(t, IsUnknownObject(err))
}

func TestIsBluezErrorPointer(t *testing.T) {
	err := &CallError{Err: &dbus.Error{Name: "org.freedesktop.DBus.Error.UnknownObject"}}
	assert.True(t, IsUnknownObject(err))
	assert.False(t, IsBluezError(errors.New("plain"), ErrNameFailed))
	assert.False(t, IsBluezError(nil, ErrNameFailed))
}
