package models

// Operation names a protected action on the API. Authorization decisions
// are looked up in a single table keyed by (role, operation) instead of
// ad-hoc role comparisons inside handlers.
type Operation string

const (
	OpExpenseList      Operation = "expense:list"
	OpExpenseRead      Operation = "expense:read"
	OpExpenseCreate    Operation = "expense:create"
	OpExpenseSetStatus Operation = "expense:set-status"
	OpExpenseDelete    Operation = "expense:delete"
	OpStatsRead        Operation = "stats:read"
	OpUserList         Operation = "user:list"
)

// rolePermissions maps each role to the operations it may perform.
// Ownership checks for read/delete are enforced separately by the
// expense service; this table only gates the operation itself.
var rolePermissions = map[string]map[Operation]bool{
	RoleAdmin: {
		OpExpenseList:      true,
		OpExpenseRead:      true,
		OpExpenseCreate:    true,
		OpExpenseSetStatus: true,
		OpExpenseDelete:    true,
		OpStatsRead:        true,
		OpUserList:         true,
	},
	RoleUser: {
		OpExpenseList:   true,
		OpExpenseRead:   true,
		OpExpenseCreate: true,
		OpExpenseDelete: true,
		OpStatsRead:     true,
	},
}

// Allowed reports whether the role may perform the operation.
func Allowed(role string, op Operation) bool {
	return rolePermissions[role][op]
}
