// Package config loads and validates Aura Core configuration.
//
// Configuration is read from a YAML file, merged over hardcoded defaults,
// then overridden by AURA_* environment variables. The loaded Config is
// immutable after startup; components receive the sections they need.
//
// The players section carries per-player policy options (grouped power-on,
// hide-members) consumed by the group coordination core. Two options are
// pinned and non-editable for group players: output channels (forced stereo)
// and flow mode (forced on).
package config
