// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"sort"

	"github.com/godbus/dbus/v5"
)

// InterfaceProperties maps interface name to its property map, as one
// object appears in a GetManagedObjects reply or an InterfacesAdded signal.
type InterfaceProperties = map[string]map[string]dbus.Variant

// ManagedObjects is the decoded reply of ObjectManager.GetManagedObjects.
type ManagedObjects = map[dbus.ObjectPath]InterfaceProperties

// ListByInterface returns the paths implementing iface, sorted.
// It returns nil when no path matches.
func ListByInterface(objects ManagedObjects, iface string) []dbus.ObjectPath {
	var result []dbus.ObjectPath
	for path, ifaces := range objects {
		if _, ok := ifaces[iface]; ok {
			result = append(result, path)
		}
	}
	return sortPaths(result)
}

// ListChildren returns the paths that have, on any of their interfaces, a
// string or object path property named linkProp equal to parent.
// The lookup is not scoped to an interface. It returns nil when no path
// matches.
func ListChildren(objects ManagedObjects, parent dbus.ObjectPath, linkProp string) []dbus.ObjectPath {
	var result []dbus.ObjectPath
	for path, ifaces := range objects {
		for _, props := range ifaces {
			if linksTo(props, linkProp, parent) {
				result = append(result, path)
				break
			}
		}
	}
	return sortPaths(result)
}

// ListChildrenWithInterface is like ListChildren, but only looks at the
// linkProp property of interface iface.
func ListChildrenWithInterface(objects ManagedObjects, parent dbus.ObjectPath,
	iface, linkProp string) []dbus.ObjectPath {
	var result []dbus.ObjectPath
	for path, ifaces := range objects {
		props, ok := ifaces[iface]
		if ok && linksTo(props, linkProp, parent) {
			result = append(result, path)
		}
	}
	return sortPaths(result)
}

// HasObjectWithInterface reports whether path implements iface.
func HasObjectWithInterface(objects ManagedObjects, path dbus.ObjectPath, iface string) bool {
	for _, p := range ListByInterface(objects, iface) {
		if p == path {
			return true
		}
	}
	return false
}

func linksTo(props map[string]dbus.Variant, linkProp string, parent dbus.ObjectPath) bool {
	v, ok := props[linkProp]
	if !ok {
		return false
	}
	s, ok := variantString(v)
	return ok && s == string(parent)
}

// variantString returns the string held by v. Object paths count as
// strings, nested variants are unwrapped, anything else is not a string.
func variantString(v dbus.Variant) (string, bool) {
	switch value := v.Value().(type) {
	case string:
		return value, true
	case dbus.ObjectPath:
		return string(value), true
	case dbus.Variant:
		return variantString(value)
	default:
		return "", false
	}
}

func sortPaths(paths []dbus.ObjectPath) []dbus.ObjectPath {
	if len(paths) == 0 {
		return nil
	}
	sort.Slice(paths, func(i, j int) bool {
		return paths[i] < paths[j]
	})
	return paths
}
