package group

import (
	"sort"
)

// ConfigEntryType identifies how a configuration surface should render
// an entry.
type ConfigEntryType string

// Entry types.
const (
	EntryTypeMultiSelect ConfigEntryType = "multi_select"
	EntryTypeBool        ConfigEntryType = "bool"
	EntryTypeString      ConfigEntryType = "string"
)

// Configuration entry keys.
const (
	EntryKeyMembers = "members"
)

// ConfigEntry describes one editable (or fixed) configuration value the
// provider exposes to the configuration surface.
type ConfigEntry struct {
	// Key identifies the entry.
	Key string `json:"key"`

	// Type tells the surface how to render the value.
	Type ConfigEntryType `json:"type"`

	// Label is the end-user description.
	Label string `json:"label"`

	// Value is the current value.
	Value any `json:"value"`

	// Options lists the selectable values for multi-select entries.
	Options []ConfigOption `json:"options,omitempty"`

	// Hidden entries exist for collaborators but are not shown to users.
	Hidden bool `json:"hidden,omitempty"`

	// Fixed entries are non-editable pinned values.
	Fixed bool `json:"fixed,omitempty"`
}

// ConfigOption is one selectable value of a multi-select entry.
type ConfigOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ConfigEntries returns the provider's configuration surface.
//
// The member list is an ordered multi-select over every known player
// except the group itself. The remaining entries are per-player policy
// flags; output channels and flow mode are pinned values the surface
// must render as non-editable.
func (p *Provider) ConfigEntries() []ConfigEntry {
	var options []ConfigOption
	for _, candidate := range p.registry.All() {
		if candidate.ID == p.id {
			continue
		}
		options = append(options, ConfigOption{
			Value: candidate.ID,
			Label: candidate.Name,
		})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Label < options[j].Label })

	return []ConfigEntry{
		{
			Key:     EntryKeyMembers,
			Type:    EntryTypeMultiSelect,
			Label:   "Players to group with",
			Value:   p.ConfiguredMembers(),
			Options: options,
		},
		{
			Key:    optHideMembers,
			Type:   EntryTypeBool,
			Label:  "Hide member players in player lists",
			Value:  p.options.BoolOption(p.id, optHideMembers),
			Hidden: true,
		},
		{
			Key:    optGroupedPowerOn,
			Type:   EntryTypeBool,
			Label:  "Power on all members when the group powers on",
			Value:  p.options.BoolOption(p.id, optGroupedPowerOn),
			Hidden: true,
		},
		{
			Key:    optOutputChannels,
			Type:   EntryTypeString,
			Label:  "Output channels",
			Value:  p.options.StringOption(p.id, optOutputChannels),
			Hidden: true,
			Fixed:  true,
		},
		{
			Key:    optFlowMode,
			Type:   EntryTypeBool,
			Label:  "Flow mode",
			Value:  p.options.BoolOption(p.id, optFlowMode),
			Hidden: true,
			Fixed:  true,
		},
	}
}
