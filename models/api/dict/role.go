package dictapimodels

import "flyer-backend/models"

func GetRoles() []RoleView {
	return []RoleView{
		GetRole(models.UserRoleAdmin),
		GetRole(models.UserRoleSupplier),
		GetRole(models.UserRoleApprover),
	}
}

func GetRole(role models.UserRole) RoleView {
	return RoleView{
		Code: string(role),
		Name: role.ToHuman(),
	}
}

type RoleView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
