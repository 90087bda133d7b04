package agent

import "testing"

func TestIsAllowed_PolicyTable(t *testing.T) {
	cases := []struct {
		from, to Role
		want     bool
	}{
		{RoleSystem, RoleSteward, true},
		{RoleSystem, RoleTranscriber, true},
		{RoleSystem, RoleSummarizer, true},
		{RoleSystem, RoleDecisionExtract, false},
		{RoleSteward, RoleTranscriber, true},
		{RoleSteward, RoleActionItemAgent, true},
		{RoleSteward, RoleSystem, false},
		{RoleTranscriber, RoleSummarizer, true},
		{RoleTranscriber, RoleDecisionExtract, false},
		{RoleSummarizer, RoleDecisionExtract, true},
		{RoleSummarizer, RoleActionItemAgent, false},
		{RoleDecisionExtract, RoleActionItemAgent, true},
		{RoleActionItemAgent, RoleSteward, true},
		{RoleActionItemAgent, RoleSummarizer, false},
	}

	for _, tc := range cases {
		if got := IsAllowed(tc.from, tc.to); got != tc.want {
			t.Errorf("IsAllowed(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIsAllowed_UnknownRoles(t *testing.T) {
	if IsAllowed(Role("GHOST"), RoleSteward) {
		t.Error("unknown sender should not be allowed")
	}
	if IsAllowed(RoleSteward, Role("GHOST")) {
		t.Error("unknown recipient should not be allowed")
	}
	if IsAllowed(Role(""), Role("")) {
		t.Error("empty roles should not be allowed")
	}
}

func TestReachableFrom(t *testing.T) {
	got := ReachableFrom(RoleSummarizer)
	if len(got) != 2 {
		t.Fatalf("expected 2 reachable roles, got %d", len(got))
	}
	if got[0] != RoleSteward || got[1] != RoleDecisionExtract {
		t.Errorf("unexpected reachable set: %v", got)
	}

	if got := ReachableFrom(Role("GHOST")); len(got) != 0 {
		t.Errorf("unknown role should reach nothing, got %v", got)
	}
}

func TestReachableFrom_ReturnsCopy(t *testing.T) {
	first := ReachableFrom(RoleSteward)
	first[0] = Role("MUTATED")

	second := ReachableFrom(RoleSteward)
	if second[0] != RoleTranscriber {
		t.Error("mutating the returned slice must not affect the policy table")
	}
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("TRANSCRIBER")
	if !ok || r != RoleTranscriber {
		t.Fatalf("ParseRole(TRANSCRIBER) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("transcriber"); ok {
		t.Error("role identifiers are case sensitive")
	}
	if _, ok := ParseRole(""); ok {
		t.Error("empty string is not a role")
	}
}
