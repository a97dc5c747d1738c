package featureflags

import "testing"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", 1) || !m.Enabled("c", 1) || !m.Enabled("e", 1) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", 1) || m.Enabled("d", 1) || m.Enabled("f", 1) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,junk=abc%")

	if !m.Enabled("always", 1) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", 1) || m.Enabled("junk", 1) {
		t.Fatal("0% and malformed rollouts should be disabled")
	}

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", 42); got != first {
			t.Fatal("rollout evaluation must be deterministic per user")
		}
	}

	if m.Enabled("canary", 0) {
		t.Fatal("percentage rollout requires non-zero userID")
	}
}

func TestEnabledOr_UnconfiguredFlag(t *testing.T) {
	m := NewManager("personalized_feed=off")

	if m.EnabledOr(PersonalizedFeed, 7, true) {
		t.Fatal("explicit off must win over the default")
	}
	if !m.EnabledOr(MentionNotifications, 7, true) {
		t.Fatal("unconfigured flag should use the default")
	}

	var nilManager *Manager
	if !nilManager.EnabledOr(PersonalizedFeed, 1, true) {
		t.Fatal("nil manager should use the default")
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, Y = 20% ,z=off ")

	snap := m.Snapshot(123)
	if len(snap) != 3 {
		t.Fatalf("expected 3 evaluated flags, got %d", len(snap))
	}
	if !snap["x"] || snap["z"] {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}
	if _, ok := snap["y"]; !ok {
		t.Fatal("flag names should be normalized to lower case")
	}
}
