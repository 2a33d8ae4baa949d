// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"path/filepath"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/linuxdeepin/go-lib/log"
	"github.com/linuxdeepin/go-lib/utils"
	"github.com/linuxdeepin/go-lib/xdg/basedir"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"

	defaultDiscoverySeconds = 5
)

var defaultConfigFile = filepath.Join(basedir.GetUserConfigDir(), "bluez-dbus/client.json")

type config struct {
	core utils.Config

	// empty means the first adapter found
	Adapter            string
	DiscoverySeconds   int
	CallTimeoutSeconds int
	Format             string
	ReadValues         bool
}

func newConfig(file string) (c *config) {
	if file == "" {
		file = defaultConfigFile
	}
	c = &config{
		DiscoverySeconds:   defaultDiscoverySeconds,
		CallTimeoutSeconds: 10,
		Format:             formatText,
		ReadValues:         true,
	}
	c.core.SetConfigFile(file)
	logger.Debug("load client config file:", c.core.GetConfigFile())
	return
}

func (c *config) load() {
	err := c.core.Load(c)
	if err != nil {
		logger.Debug(err)
	}
	if logger.GetLogLevel() == log.LevelDebug {
		logger.Debugf("load config: %v", spew.Sdump(c))
	}
}

func (c *config) save() error {
	return c.core.Save(c)
}

func (c *config) discoveryDuration() time.Duration {
	if c.DiscoverySeconds < 0 {
		return 0
	}
	return time.Duration(c.DiscoverySeconds) * time.Second
}

func (c *config) callTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

func isValidFormat(format string) bool {
	switch format {
	case formatText, formatJSON, formatYAML:
		return true
	}
	return false
}
