// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import "fmt"

// SessionMode selects how a session presents.
type SessionMode int

const (
	// Inline renders into a page element without a headset.
	Inline SessionMode = iota

	// ImmersiveVR renders exclusively to a headset.
	ImmersiveVR

	// ImmersiveAR renders over the user's view of the real world.
	ImmersiveAR
)

// String returns the WebXR name of the mode.
func (m SessionMode) String() string {
	switch m {
	case Inline:
		return "inline"
	case ImmersiveVR:
		return "immersive-vr"
	case ImmersiveAR:
		return "immersive-ar"
	default:
		return fmt.Sprintf("SessionMode(%d)", int(m))
	}
}

// Immersive reports whether the mode presents to a headset.
func (m SessionMode) Immersive() bool {
	return m == ImmersiveVR || m == ImmersiveAR
}

// ParseSessionMode parses a WebXR mode name.
func ParseSessionMode(s string) (SessionMode, error) {
	switch s {
	case "inline":
		return Inline, nil
	case "immersive-vr", "vr":
		return ImmersiveVR, nil
	case "immersive-ar", "ar":
		return ImmersiveAR, nil
	}
	return 0, fmt.Errorf("xr: unknown session mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m SessionMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SessionMode) UnmarshalText(text []byte) error {
	v, err := ParseSessionMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
