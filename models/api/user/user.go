package userapimodels

import (
	"flyer-backend/models"
	dbmodels "flyer-backend/models/db"
	"net/mail"
	"strings"

	"github.com/pkg/errors"
)

type UserData struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Company   string          `json:"company"` // название компании поставщика
	Role      models.UserRole `json:"role"`    // ADMIN, SUPPLIER, APPROVER
}

func (r UserData) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("почта имеет неправильный формат")
	}
	if len(strings.TrimSpace(r.Password)) < 8 {
		return errors.New("пароль должен быть не короче 8 символов")
	}
	if strings.TrimSpace(r.FirstName) == "" {
		return errors.New("не указано имя")
	}
	if !r.Role.IsValid() {
		return errors.New("указана неизвестная роль")
	}
	if r.Role == models.UserRoleSupplier && strings.TrimSpace(r.Company) == "" {
		return errors.New("для поставщика необходимо указать компанию")
	}
	return nil
}

type UserView struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	FullName  string          `json:"full_name"`
	Company   string          `json:"company"`
	Role      models.UserRole `json:"role"`
	RoleName  string          `json:"role_name"`
	IsActive  bool            `json:"is_active"`
}

func UserConvert(rec dbmodels.User) UserView {
	return UserView{
		ID:        rec.ID,
		Email:     rec.Email,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		FullName:  rec.GetFullName(),
		Company:   rec.Company,
		Role:      rec.Role,
		RoleName:  rec.Role.ToHuman(),
		IsActive:  rec.IsActive,
	}
}

type ActiveRequest struct {
	IsActive bool `json:"is_active"`
}
