package models

type UserRole string

const (
	UserRoleAdmin    UserRole = "ADMIN"
	UserRoleSupplier UserRole = "SUPPLIER"
	UserRoleApprover UserRole = "APPROVER"
)

var roleHumanName = map[UserRole]string{
	UserRoleAdmin:    "Администратор",
	UserRoleSupplier: "Поставщик",
	UserRoleApprover: "Согласующий",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsValid() bool {
	_, ok := roleHumanName[r]
	return ok
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
