// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xr

import "testing"

func TestParseSessionMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SessionMode
		wantErr bool
	}{
		{"inline", Inline, false},
		{"immersive-vr", ImmersiveVR, false},
		{"vr", ImmersiveVR, false},
		{"immersive-ar", ImmersiveAR, false},
		{"ar", ImmersiveAR, false},
		{"IMMERSIVE-VR", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSessionMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSessionMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSessionMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSessionModeText(t *testing.T) {
	for _, m := range []SessionMode{Inline, ImmersiveVR, ImmersiveAR} {
		b, err := m.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) = %v", m, err)
		}
		var back SessionMode
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q) = %v", b, err)
		}
		if back != m {
			t.Errorf("text round trip of %v gave %v", m, back)
		}
	}
}

func TestSessionModeImmersive(t *testing.T) {
	if Inline.Immersive() {
		t.Error("Inline.Immersive() = true")
	}
	if !ImmersiveVR.Immersive() || !ImmersiveAR.Immersive() {
		t.Error("immersive modes report Immersive() = false")
	}
}
