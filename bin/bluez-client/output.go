// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

func writeAdapterInfo(w io.Writer, format string, info *adapterInfo) error {
	switch format {
	case formatText:
		return writeText(w, info)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(info)
		if err != nil {
			return err
		}
		return enc.Close()
	}
	return xerrors.Errorf("unknown output format %q", format)
}

func writeText(w io.Writer, info *adapterInfo) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Adapter %s %s (%s) powered: %v discovering: %v\n",
		info.Path, info.Address, info.Alias, info.Powered, info.Discovering)
	if len(info.Devices) == 0 {
		sb.WriteString("  no devices\n")
	}

	for _, dev := range info.Devices {
		fmt.Fprintf(&sb, "  Device %s %s", dev.Path, dev.Address)
		if dev.Alias != "" {
			fmt.Fprintf(&sb, " (%s)", dev.Alias)
		}
		if dev.RSSI != nil {
			fmt.Fprintf(&sb, " rssi: %d", *dev.RSSI)
		}
		fmt.Fprintf(&sb, " paired: %v connected: %v trusted: %v\n", dev.Paired, dev.Connected, dev.Trusted)

		for _, svc := range dev.Services {
			primary := ""
			if svc.Primary {
				primary = " primary"
			}
			fmt.Fprintf(&sb, "    Service %s %s%s\n", svc.Path, svc.UUID, primary)

			for _, char := range svc.Characteristics {
				fmt.Fprintf(&sb, "      Characteristic %s %s [%s]", char.Path, char.UUID,
					strings.Join(char.Flags, ","))
				if len(char.Value) > 0 {
					fmt.Fprintf(&sb, " value: %s", hex.EncodeToString(char.Value))
				}
				sb.WriteString("\n")

				for _, desc := range char.Descriptors {
					fmt.Fprintf(&sb, "        Descriptor %s %s\n", desc.Path, desc.UUID)
				}
			}
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
