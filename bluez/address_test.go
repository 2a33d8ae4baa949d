// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"testing"

	"github.com/godbus/dbus/v5"
	C "gopkg.in/check.v1"
)

func Test(t *testing.T) {
	C.TestingT(t)
}

type addressSuite struct{}

var _ = C.Suite(&addressSuite{})

func (s *addressSuite) TestAddressFromPath(c *C.C) {
	c.Check(AddressFromPath("/org/bluez/hci0/dev_A0_E6_F8_8A_4D_5C"), C.Equals, "A0:E6:F8:8A:4D:5C")
	c.Check(AddressFromPath("/org/bluez/hci0/dev_A0_E6_F8_8A_4D_5C/service0010/char0011"),
		C.Equals, "A0:E6:F8:8A:4D:5C")
	c.Check(AddressFromPath("/org/bluez/hci0"), C.Equals, "")
	c.Check(AddressFromPath("/org/bluez/hci0/dev_"), C.Equals, "")
	c.Check(AddressFromPath("/"), C.Equals, "")
}

func (s *addressSuite) TestDevicePath(c *C.C) {
	c.Check(DevicePath("/org/bluez/hci0", "a0:e6:f8:8a:4d:5c"), C.Equals,
		dbus.ObjectPath("/org/bluez/hci0/dev_A0_E6_F8_8A_4D_5C"))

	path := DevicePath("/org/bluez/hci1", "00:1A:7D:DA:71:11")
	c.Check(path.IsValid(), C.Equals, true)
	c.Check(AddressFromPath(path), C.Equals, "00:1A:7D:DA:71:11")
}
