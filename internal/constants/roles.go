package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the integer role column on the roles table
type Role int

const (
	RoleClimber  Role = 1
	RoleGymOwner Role = 2
	RoleGymStaff Role = 3
	RoleAdmin    Role = 4
)

var roleNames = map[Role]string{
	RoleClimber:  "CLIMBER",
	RoleGymOwner: "GYM_OWNER",
	RoleGymStaff: "GYM_STAFF",
	RoleAdmin:    "ADMIN_USER",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("ROLE_%d", int(r))
}

/* ---------- DB adapters so gorm and sqlx scan/value cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = 0
	case int64:
		*r = Role(v)
	case int32:
		*r = Role(v)
	case int:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return int64(r), nil }
