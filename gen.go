// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluezdbus

//go:generate go build -o target/ github.com/linuxdeepin/bluez-dbus/bin/bluez-client
//go:generate go build -o target/ github.com/linuxdeepin/bluez-dbus/bin/bluez-trust
