// Package config handles configuration loading for the Nova bridge.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults matching the Nova
// gateway's expectations.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from NOVA_BRIDGE_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/nova/bridge.yaml
//  3. ~/.config/nova/bridge.yaml
//
// Secrets are normally supplied through ${VAR} references that are expanded
// from the process environment (optionally populated from a .env file by the
// binary) before the YAML is parsed.
package config
