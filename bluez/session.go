// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/godbus/dbus/v5"
	ofdbus "github.com/linuxdeepin/go-dbus-factory/system/org.freedesktop.dbus"
	"github.com/linuxdeepin/go-lib/log"
	"golang.org/x/xerrors"
)

// Conn is the part of a bus connection a Session needs. *dbus.Conn
// implements it.
type Conn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
}

// Session talks to the BlueZ daemon. It holds no state besides the
// connection and the call timeout, every query goes to the bus. A Session
// may be shared by several goroutines.
type Session struct {
	conn    Conn
	bus     *dbus.Conn
	timeout atomic.Int64 // time.Duration
}

// NewSession opens a private system bus connection and checks that the
// BlueZ daemon is on the bus.
func NewSession() (*Session, error) {
	bus, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, xerrors.Errorf("failed to connect to system bus: %w", err)
	}

	sysDBusDaemon := ofdbus.NewDBus(bus)
	hasOwner, err := sysDBusDaemon.NameHasOwner(0, ServiceName)
	if err != nil {
		_ = bus.Close()
		return nil, xerrors.Errorf("failed to call NameHasOwner: %w", err)
	}
	if !hasOwner {
		_ = bus.Close()
		return nil, ErrServiceUnavailable
	}

	s := NewSessionWithConn(bus)
	s.bus = bus
	logger.Debug("session connected:", bus.Names())
	return s, nil
}

// NewSessionWithConn builds a Session on top of conn. The caller keeps
// ownership of conn.
func NewSessionWithConn(conn Conn) *Session {
	s := &Session{conn: conn}
	s.timeout.Store(int64(DefaultCallTimeout))
	return s
}

func (s *Session) String() string {
	if s.bus != nil {
		return fmt.Sprintf("Session{conn: %v}", s.bus.Names())
	}
	return "Session{}"
}

// SetCallTimeout changes the timeout of every following call. A zero or
// negative value restores DefaultCallTimeout. It is safe to call while
// other goroutines use the Session.
func (s *Session) SetCallTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultCallTimeout
	}
	s.timeout.Store(int64(d))
}

func (s *Session) callTimeout() time.Duration {
	return time.Duration(s.timeout.Load())
}

// Bus returns the connection opened by NewSession, or nil.
func (s *Session) Bus() *dbus.Conn {
	return s.bus
}

// Close closes the connection opened by NewSession.
func (s *Session) Close() error {
	if s.bus == nil {
		return nil
	}
	return s.bus.Close()
}

// ManagedObjects fetches a fresh snapshot of every object BlueZ exports.
func (s *Session) ManagedObjects(ctx context.Context) (ManagedObjects, error) {
	var objects ManagedObjects
	err := s.call(ctx, RootPath, methodGetManagedObjects, []interface{}{&objects})
	if err != nil {
		return nil, err
	}
	if logger.GetLogLevel() == log.LevelDebug {
		logger.Debugf("managed objects: %s", spew.Sdump(objects))
	}
	return objects, nil
}

// Adapters returns the paths of all adapters, nil if there is none.
func (s *Session) Adapters(ctx context.Context) ([]dbus.ObjectPath, error) {
	objects, err := s.ManagedObjects(ctx)
	if err != nil {
		return nil, err
	}
	return ListByInterface(objects, AdapterInterface), nil
}

// Children returns the objects implementing iface whose linkProp points to
// parent, nil if there is none.
func (s *Session) Children(ctx context.Context, parent dbus.ObjectPath,
	iface, linkProp string) ([]dbus.ObjectPath, error) {
	objects, err := s.ManagedObjects(ctx)
	if err != nil {
		return nil, err
	}
	return ListChildrenWithInterface(objects, parent, iface, linkProp), nil
}

func (s *Session) hasObject(ctx context.Context, path dbus.ObjectPath, iface string) (bool, error) {
	objects, err := s.ManagedObjects(ctx)
	if err != nil {
		return false, err
	}
	return HasObjectWithInterface(objects, path, iface), nil
}

func (s *Session) getAllProperties(ctx context.Context, path dbus.ObjectPath,
	iface string) (map[string]dbus.Variant, error) {
	var props map[string]dbus.Variant
	err := s.call(ctx, path, methodPropertiesGetAll, []interface{}{&props}, iface)
	if err != nil {
		return nil, err
	}
	return props, nil
}

// call invokes method on the object at path and stores the reply body
// into ret.
func (s *Session) call(ctx context.Context, path dbus.ObjectPath, method string,
	ret []interface{}, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, s.callTimeout())
	defer cancel()

	logger.Debugf("call %s on %s, args: %v", method, path, args)
	c := s.conn.Object(ServiceName, path).CallWithContext(ctx, method, 0, args...)
	if c.Err != nil {
		logger.Debugf("call %s on %s failed: %v", method, path, c.Err)
		return &CallError{Path: path, Method: method, Err: c.Err}
	}
	if len(ret) == 0 {
		return nil
	}
	err := c.Store(ret...)
	if err != nil {
		return &CallError{Path: path, Method: method, Err: err}
	}
	return nil
}
