package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// uiMode is the value of --ui. It implements pflag.Value so a bad value is
// rejected while flags are parsed.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var _ pflag.Value = (*uiMode)(nil)

func (m *uiMode) String() string { return string(*m) }

func (m *uiMode) Type() string { return "auto|on|off" }

func (m *uiMode) Set(value string) error {
	switch v := uiMode(strings.ToLower(strings.TrimSpace(value))); v {
	case "":
		*m = uiModeAuto
	case uiModeAuto, uiModeOn, uiModeOff:
		*m = v
	default:
		return fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return nil
}

// useTUI: в auto-режиме прогресс рисуется только в терминал
func (m uiMode) useTUI() bool {
	if m == uiModeAuto {
		return isTerminal(os.Stdout)
	}
	return m == uiModeOn
}

// uiModeFlag reads --ui back from the flag set.
func uiModeFlag(flags *pflag.FlagSet) uiMode {
	if f := flags.Lookup("ui"); f != nil {
		if m, ok := f.Value.(*uiMode); ok {
			return *m
		}
	}
	return uiModeAuto
}
