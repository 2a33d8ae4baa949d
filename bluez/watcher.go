// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bluez

import (
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	bluezproxy "github.com/linuxdeepin/go-dbus-factory/system/org.bluez"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"golang.org/x/xerrors"
)

type (
	ObjectAddedFunc       func(path dbus.ObjectPath, ifaces InterfaceProperties)
	ObjectRemovedFunc     func(path dbus.ObjectPath, ifaces []string)
	PropertiesChangedFunc func(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant)
	ValueChangedFunc      func(path dbus.ObjectPath, value []byte)
)

// Watcher delivers the signals BlueZ emits when objects appear or vanish
// and when properties change, notifications included. Callbacks run on
// the signal loop goroutine and must not block.
type Watcher struct {
	sigLoop       *dbusutil.SignalLoop
	objectManager bluezproxy.ObjectManager
	propsRule     dbusutil.MatchRule

	// subscribe adds a signal loop handler and returns its remover
	subscribe        func(rule *dbusutil.SignalRule, cb func(*dbus.Signal)) (unsubscribe func())
	unsubscribeProps func()

	// lifeMu guards started and unsubscribeProps, mu guards the callbacks
	lifeMu  sync.Mutex
	started bool

	mu              sync.Mutex
	addedCbs        []ObjectAddedFunc
	removedCbs      []ObjectRemovedFunc
	propsChangedCbs []PropertiesChangedFunc
	valueChangedCbs []ValueChangedFunc
}

func NewWatcher(conn *dbus.Conn) *Watcher {
	w := &Watcher{
		sigLoop:       dbusutil.NewSignalLoop(conn, 10),
		objectManager: bluezproxy.NewObjectManager(conn),
		propsRule: dbusutil.NewMatchRuleBuilder().
			Type("signal").
			Sender(ServiceName).
			Interface(propertiesInterface).
			Member(memberPropertiesChanged).
			PathNamespace("/org/bluez").Build(),
	}
	w.subscribe = w.subscribeSignal
	return w
}

func (w *Watcher) subscribeSignal(rule *dbusutil.SignalRule, cb func(*dbus.Signal)) func() {
	id := w.sigLoop.AddHandler(rule, cb)
	return func() {
		w.sigLoop.RemoveHandler(id)
	}
}

func (w *Watcher) OnObjectAdded(cb ObjectAddedFunc) {
	w.mu.Lock()
	w.addedCbs = append(w.addedCbs, cb)
	w.mu.Unlock()
}

func (w *Watcher) OnObjectRemoved(cb ObjectRemovedFunc) {
	w.mu.Lock()
	w.removedCbs = append(w.removedCbs, cb)
	w.mu.Unlock()
}

func (w *Watcher) OnPropertiesChanged(cb PropertiesChangedFunc) {
	w.mu.Lock()
	w.propsChangedCbs = append(w.propsChangedCbs, cb)
	w.mu.Unlock()
}

// OnValueChanged registers cb for the Value changes of characteristics and
// descriptors. Characteristics only send them after StartNotify.
func (w *Watcher) OnValueChanged(cb ValueChangedFunc) {
	w.mu.Lock()
	w.valueChangedCbs = append(w.valueChangedCbs, cb)
	w.mu.Unlock()
}

func (w *Watcher) Start() error {
	w.lifeMu.Lock()
	defer w.lifeMu.Unlock()
	if w.started {
		return nil
	}

	w.sigLoop.Start()
	w.objectManager.InitSignalExt(w.sigLoop, true)
	_, err := w.objectManager.ConnectInterfacesAdded(w.handleInterfacesAdded)
	if err != nil {
		w.sigLoop.Stop()
		return xerrors.Errorf("failed to connect InterfacesAdded: %w", err)
	}
	_, err = w.objectManager.ConnectInterfacesRemoved(w.handleInterfacesRemoved)
	if err != nil {
		w.objectManager.RemoveAllHandlers()
		w.sigLoop.Stop()
		return xerrors.Errorf("failed to connect InterfacesRemoved: %w", err)
	}

	err = w.propsRule.AddTo(w.sigLoop.Conn())
	if err != nil {
		w.objectManager.RemoveAllHandlers()
		w.sigLoop.Stop()
		return xerrors.Errorf("failed to add match rule: %w", err)
	}
	w.connectPropertiesChanged()

	w.started = true
	return nil
}

// Stop undoes everything Start did, so the Watcher can be started again.
func (w *Watcher) Stop() {
	w.lifeMu.Lock()
	defer w.lifeMu.Unlock()
	if !w.started {
		return
	}
	w.disconnectPropertiesChanged()
	err := w.propsRule.RemoveFrom(w.sigLoop.Conn())
	if err != nil {
		logger.Warning("failed to remove match rule:", err)
	}
	w.objectManager.RemoveAllHandlers()
	w.sigLoop.Stop()
	w.started = false
}

// connectPropertiesChanged must be called with lifeMu held.
func (w *Watcher) connectPropertiesChanged() {
	if w.unsubscribeProps != nil {
		return
	}
	w.unsubscribeProps = w.subscribe(&dbusutil.SignalRule{
		Name: propertiesInterface + "." + memberPropertiesChanged,
	}, w.handlePropertiesChanged)
}

// disconnectPropertiesChanged must be called with lifeMu held.
func (w *Watcher) disconnectPropertiesChanged() {
	if w.unsubscribeProps == nil {
		return
	}
	w.unsubscribeProps()
	w.unsubscribeProps = nil
}

func (w *Watcher) handleInterfacesAdded(path dbus.ObjectPath, ifaces map[string]map[string]dbus.Variant) {
	logger.Debug("interfaces added:", path)
	w.mu.Lock()
	cbs := w.addedCbs
	w.mu.Unlock()
	for _, cb := range cbs {
		cb(path, ifaces)
	}
}

func (w *Watcher) handleInterfacesRemoved(path dbus.ObjectPath, ifaces []string) {
	logger.Debug("interfaces removed:", path, ifaces)
	w.mu.Lock()
	cbs := w.removedCbs
	w.mu.Unlock()
	for _, cb := range cbs {
		cb(path, ifaces)
	}
}

func (w *Watcher) handlePropertiesChanged(sig *dbus.Signal) {
	iface, changed, ok := parsePropertiesChanged(sig)
	if !ok {
		return
	}

	w.mu.Lock()
	propsCbs := w.propsChangedCbs
	valueCbs := w.valueChangedCbs
	w.mu.Unlock()

	for _, cb := range propsCbs {
		cb(sig.Path, iface, changed)
	}
	if value, ok := valueFromChanged(iface, changed); ok {
		for _, cb := range valueCbs {
			cb(sig.Path, value)
		}
	}
}

// parsePropertiesChanged decodes the body (interface, changed, invalidated)
// of a PropertiesChanged signal sent by an object below /org/bluez.
func parsePropertiesChanged(sig *dbus.Signal) (string, map[string]dbus.Variant, bool) {
	if sig.Name != propertiesInterface+"."+memberPropertiesChanged {
		return "", nil, false
	}
	if !sig.Path.IsValid() || !isBluezPath(sig.Path) {
		return "", nil, false
	}
	if len(sig.Body) < 2 {
		return "", nil, false
	}
	iface, ok := sig.Body[0].(string)
	if !ok {
		return "", nil, false
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return "", nil, false
	}
	return iface, changed, true
}

func valueFromChanged(iface string, changed map[string]dbus.Variant) ([]byte, bool) {
	if iface != CharacteristicInterface && iface != DescriptorInterface {
		return nil, false
	}
	v, ok := changed["Value"]
	if !ok {
		return nil, false
	}
	value, ok := v.Value().([]byte)
	return value, ok
}

func isBluezPath(path dbus.ObjectPath) bool {
	return strings.HasPrefix(string(path), "/org/bluez/")
}
