// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("bluez-dbus/bluez")

func SetLogger(v *log.Logger) {
	logger = v
}
