// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

/*
Package bluez is a client for the object model the BlueZ daemon exports on
the system bus: adapters, devices, GATT services, characteristics and
descriptors.

Handles are plain (session, path) values and cache nothing, every getter
and setter is one call to the daemon. Parent/child relations are derived
from a fresh GetManagedObjects snapshot on each query, by matching the
link property of the child (Adapter on a device, Device on a GATT service,
Service on a characteristic, Characteristic on a descriptor) against the
parent path.

A query that finds nothing returns a nil slice, LookupAdapter returns a
nil handle. Errors are only returned for failed calls.
*/
package bluez
