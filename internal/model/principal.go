package model

const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
)

type Principal struct {
	UserID string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
