// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"golang.org/x/xerrors"
)

const (
	ErrNameRejected         = "org.bluez.Error.Rejected"
	ErrNameCanceled         = "org.bluez.Error.Canceled"
	ErrNameFailed           = "org.bluez.Error.Failed"
	ErrNameInProgress       = "org.bluez.Error.InProgress"
	ErrNameNotReady         = "org.bluez.Error.NotReady"
	ErrNameNotAuthorized    = "org.bluez.Error.NotAuthorized"
	ErrNameNotSupported     = "org.bluez.Error.NotSupported"
	ErrNameNotPermitted     = "org.bluez.Error.NotPermitted"
	ErrNameInvalidArguments = "org.bluez.Error.InvalidArguments"
	ErrNameAlreadyConnected = "org.bluez.Error.AlreadyConnected"
	ErrNameDoesNotExist     = "org.bluez.Error.DoesNotExist"

	errNameUnknownObject = "org.freedesktop.DBus.Error.UnknownObject"
)

// ErrServiceUnavailable is returned by NewSession when nobody owns the
// org.bluez name on the system bus.
var ErrServiceUnavailable = xerrors.New("org.bluez not found on system bus, is bluetooth.service running?")

// CallError is returned for every failed bus round trip: transport
// failures, timeouts, error replies and replies of an unexpected shape.
type CallError struct {
	Path   dbus.ObjectPath
	Method string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("call %s on %s: %v", e.Method, e.Path, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// IsBluezError reports whether err carries a D-Bus error reply named name.
func IsBluezError(err error, name string) bool {
	var dbusErr dbus.Error
	if xerrors.As(err, &dbusErr) {
		return dbusErr.Name == name
	}
	var dbusErrPtr *dbus.Error
	if xerrors.As(err, &dbusErrPtr) {
		return dbusErrPtr.Name == name
	}
	return false
}

// IsUnknownObject reports whether the daemon no longer knows the object
// the failed call was addressed to.
func IsUnknownObject(err error) bool {
	return IsBluezError(err, errNameUnknownObject)
}
