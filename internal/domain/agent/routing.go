package agent

// allowedRoutes is the static permission graph over roles. It is directed and
// not symmetric: the steward is addressable by every worker role but only the
// roles listed under it may be addressed in turn. Consulted, never mutated.
var allowedRoutes = map[Role][]Role{
	RoleSystem: {
		RoleSteward,
		RoleTranscriber,
		RoleSummarizer,
	},
	RoleSteward: {
		RoleTranscriber,
		RoleSummarizer,
		RoleDecisionExtract,
		RoleActionItemAgent,
	},
	RoleTranscriber: {
		RoleSteward,
		RoleSummarizer,
	},
	RoleSummarizer: {
		RoleSteward,
		RoleDecisionExtract,
	},
	RoleDecisionExtract: {
		RoleSteward,
		RoleActionItemAgent,
	},
	RoleActionItemAgent: {
		RoleSteward,
	},
}

// IsAllowed reports whether a message from one role may address another.
// Unknown roles on either side yield false.
func IsAllowed(from, to Role) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	for _, r := range allowedRoutes[from] {
		if r == to {
			return true
		}
	}
	return false
}

// ReachableFrom returns the set of roles the given role may address. The
// result is a copy; callers may not reach the policy table through it.
// An unknown role yields an empty set.
func ReachableFrom(role Role) []Role {
	if !role.Valid() {
		return nil
	}
	routes := allowedRoutes[role]
	out := make([]Role, len(routes))
	copy(out, routes)
	return out
}
