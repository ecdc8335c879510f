//go:build !tinygo

package platform

import "stickhal/hal/panel"

// DefaultPanel returns an in-memory controller sized to v's RAM window.
// It serves both encodings, so it works for every variant.
func DefaultPanel(v panel.Variant) (panel.Panel, error) {
	return NewMemPanel(v.RAMSize()), nil
}
