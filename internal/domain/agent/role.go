package agent

// Role identifies a participant in the inter-agent protocol.
type Role string

const (
	RoleSteward         Role = "STEWARD"
	RoleTranscriber     Role = "TRANSCRIBER"
	RoleSummarizer      Role = "SUMMARIZER"
	RoleDecisionExtract Role = "DECISION_EXTRACTOR"
	RoleActionItemAgent Role = "ACTION_ITEM_AGENT"
	RoleSystem          Role = "SYSTEM"
)

// allRoles is the closed set of valid roles.
var allRoles = map[Role]struct{}{
	RoleSteward:         {},
	RoleTranscriber:     {},
	RoleSummarizer:      {},
	RoleDecisionExtract: {},
	RoleActionItemAgent: {},
	RoleSystem:          {},
}

// ParseRole converts a raw string into a Role. Unknown identifiers are a
// validation failure at the boundary, never a panic.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := allRoles[r]
	if !ok {
		return "", false
	}
	return r, true
}

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	_, ok := allRoles[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}
