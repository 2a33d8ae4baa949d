// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	dest     string
	path     dbus.ObjectPath
	method   string
	args     []interface{}
	deadline time.Time
}

// fakeConn answers calls with canned replies keyed by path and method.
type fakeConn struct {
	mu      sync.Mutex
	calls   []recordedCall
	replies map[string][]interface{}
	errs    map[string]error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		replies: make(map[string][]interface{}),
		errs:    make(map[string]error),
	}
}

func callKey(path dbus.ObjectPath, method string) string {
	return string(path) + " " + method
}

func (c *fakeConn) reply(path dbus.ObjectPath, method string, body ...interface{}) {
	c.replies[callKey(path, method)] = body
}

func (c *fakeConn) fail(path dbus.ObjectPath, method string, err error) {
	c.errs[callKey(path, method)] = err
}

func (c *fakeConn) setObjects(objects ManagedObjects) {
	c.reply(RootPath, methodGetManagedObjects, objects)
}

func (c *fakeConn) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return &fakeObject{conn: c, dest: dest, path: path}
}

func (c *fakeConn) recorded() []recordedCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]recordedCall(nil), c.calls...)
}

func (c *fakeConn) lastCall() recordedCall {
	calls := c.recorded()
	if len(calls) == 0 {
		return recordedCall{}
	}
	return calls[len(calls)-1]
}

type fakeObject struct {
	// only CallWithContext is implemented
	dbus.BusObject

	conn *fakeConn
	dest string
	path dbus.ObjectPath
}

func (o *fakeObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags,
	args ...interface{}) *dbus.Call {
	deadline, _ := ctx.Deadline()

	o.conn.mu.Lock()
	o.conn.calls = append(o.conn.calls, recordedCall{
		dest:     o.dest,
		path:     o.path,
		method:   method,
		args:     args,
		deadline: deadline,
	})
	key := callKey(o.path, method)
	err := o.conn.errs[key]
	body := o.conn.replies[key]
	o.conn.mu.Unlock()

	call := &dbus.Call{
		Destination: o.dest,
		Path:        o.path,
		Method:      method,
		Args:        args,
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		call.Err = ctxErr
		return call
	}
	call.Err = err
	call.Body = body
	return call
}

func TestSessionManagedObjects(t *testing.T) {
	conn := newFakeConn()
	conn.setObjects(newTestObjects())
	s := NewSessionWithConn(conn)

	objects, err := s.ManagedObjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, objects, len(newTestObjects()))
	assert.Contains(t, objects, testAdapterPath)

	call := conn.lastCall()
	assert.Equal(t, ServiceName, call.dest)
	assert.Equal(t, RootPath, call.path)
	assert.Equal(t, "org.freedesktop.DBus.ObjectManager.GetManagedObjects", call.method)
	assert.Empty(t, call.args)
}

func TestSessionAdapters(t *testing.T) {
	conn := newFakeConn()
	conn.setObjects(newTestObjects())
	s := NewSessionWithConn(conn)

	adapters, err := s.Adapters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dbus.ObjectPath{"/org/bluez/hci0", "/org/bluez/hci1"}, adapters)

	conn.setObjects(ManagedObjects{})
	adapters, err = s.Adapters(context.Background())
	require.NoError(t, err)
	assert.Nil(t, adapters)
}

func TestSessionChildrenFetchesFreshSnapshot(t *testing.T) {
	conn := newFakeConn()
	conn.setObjects(newTestObjects())
	s := NewSessionWithConn(conn)

	devices, err := s.Children(context.Background(), testAdapterPath, DeviceInterface, LinkAdapter)
	require.NoError(t, err)
	assert.Equal(t, []dbus.ObjectPath{"/org/bluez/hci0/dev_AA", "/org/bluez/hci0/dev_BB"}, devices)

	conn.setObjects(ManagedObjects{
		"/org/bluez/hci0/dev_DD": {
			DeviceInterface: {"Adapter": dbus.MakeVariant(testAdapterPath)},
		},
	})
	devices, err = s.Children(context.Background(), testAdapterPath, DeviceInterface, LinkAdapter)
	require.NoError(t, err)
	assert.Equal(t, []dbus.ObjectPath{"/org/bluez/hci0/dev_DD"}, devices)
	assert.Len(t, conn.recorded(), 2)
}

func TestSessionTransportError(t *testing.T) {
	conn := newFakeConn()
	replyErr := dbus.Error{
		Name: "org.freedesktop.DBus.Error.NoReply",
		Body: []interface{}{"no reply"},
	}
	conn.fail(RootPath, methodGetManagedObjects, replyErr)
	s := NewSessionWithConn(conn)

	adapters, err := s.Adapters(context.Background())
	assert.Nil(t, adapters)
	require.Error(t, err)

	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, RootPath, callErr.Path)
	assert.Equal(t, methodGetManagedObjects, callErr.Method)
	assert.True(t, IsBluezError(err, "org.freedesktop.DBus.Error.NoReply"))

	_, err = s.Children(context.Background(), testAdapterPath, DeviceInterface, LinkAdapter)
	assert.Error(t, err)
}

func TestSessionMalformedReply(t *testing.T) {
	conn := newFakeConn()
	conn.reply(RootPath, methodGetManagedObjects, "not a map")
	s := NewSessionWithConn(conn)

	_, err := s.ManagedObjects(context.Background())
	var callErr *CallError
	assert.True(t, errors.As(err, &callErr))

	conn.reply(RootPath, methodGetManagedObjects)
	_, err = s.ManagedObjects(context.Background())
	assert.Error(t, err)
}

func TestSessionCallTimeout(t *testing.T) {
	conn := newFakeConn()
	conn.setObjects(ManagedObjects{})
	s := NewSessionWithConn(conn)

	start := time.Now()
	_, err := s.ManagedObjects(context.Background())
	require.NoError(t, err)
	deadline := conn.lastCall().deadline
	assert.False(t, deadline.IsZero())
	assert.WithinDuration(t, start.Add(DefaultCallTimeout), deadline, time.Second)

	s.SetCallTimeout(time.Minute)
	_, err = s.ManagedObjects(context.Background())
	require.NoError(t, err)
	assert.WithinDuration(t, start.Add(time.Minute), conn.lastCall().deadline, time.Second)

	s.SetCallTimeout(0)
	assert.Equal(t, DefaultCallTimeout, s.callTimeout())
}

func TestSessionCanceledContext(t *testing.T) {
	conn := newFakeConn()
	conn.setObjects(newTestObjects())
	s := NewSessionWithConn(conn)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Adapters(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSessionConcurrentUse(t *testing.T) {
	conn := newFakeConn()
	conn.setObjects(newTestObjects())
	s := NewSessionWithConn(conn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			adapters, err := s.Adapters(context.Background())
			assert.NoError(t, err)
			assert.Len(t, adapters, 2)
		}()
	}
	wg.Wait()
	assert.Len(t, conn.recorded(), 8)
}

func TestSessionWithoutBus(t *testing.T) {
	s := NewSessionWithConn(newFakeConn())
	assert.Nil(t, s.Bus())
	assert.NoError(t, s.Close())
	assert.Equal(t, "Session{}", s.String())
}

func TestSessionSetCallTimeoutWhileShared(t *testing.T) {
	conn := newFakeConn()
	conn.setObjects(newTestObjects())
	s := NewSessionWithConn(conn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Adapters(context.Background())
			assert.NoError(t, err)
		}()
		go func(i int) {
			defer wg.Done()
			s.SetCallTimeout(time.Duration(i+1) * time.Second)
		}(i)
	}
	wg.Wait()

	timeout := s.callTimeout()
	assert.True(t, timeout >= time.Second && timeout <= 8*time.Second, timeout)
}
