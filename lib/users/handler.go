package usershandler

import (
	"flyer-backend/db"
	usersstore "flyer-backend/lib/users/store"
	authutils "flyer-backend/lib/utils/auth-utils"
	initchecker "flyer-backend/lib/utils/init-checker"
	"flyer-backend/models"
	authapimodels "flyer-backend/models/api/auth"
	userapimodels "flyer-backend/models/api/user"
	dbmodels "flyer-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Provider interface {
	Login(email, password string) (authapimodels.JWTResponse, error)
	Me(userID string) (userapimodels.UserView, error)
	Create(request userapimodels.UserData) (id string, err error)
	SetActive(id string, active bool) error
	List(role models.UserRole) ([]userapimodels.UserView, error)
}

var Instance Provider

var errUserExist = models.NewConflictError("USER_EXIST", "пользователь с такой почтой уже существует")

func NewHandler() {
	instance := impl{
		store:    usersstore.NewInstance(db.DB),
		getToken: authutils.GetToken,
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	Instance = instance
}

type impl struct {
	store    usersstore.Provider
	getToken func(userID, name string, role models.UserRole) (string, error)
}

func (i impl) Login(email, password string) (authapimodels.JWTResponse, error) {
	logger := log.WithField("email", email)
	user, err := i.store.FindByEmail(email)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	if user == nil || !user.IsActive {
		return authapimodels.JWTResponse{}, models.ErrInvalidCredential
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		logger.Info("неудачная попытка входа")
		return authapimodels.JWTResponse{}, models.ErrInvalidCredential
	}
	token, err := i.getToken(user.ID, user.GetFullName(), user.Role)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "ошибка формирования токена")
	}
	err = i.store.Update(user.ID, map[string]interface{}{"last_login": time.Now()})
	if err != nil {
		logger.WithError(err).Warn("ошибка сохранения даты входа")
	}
	return authapimodels.JWTResponse{
		Token: token,
		User: authapimodels.UserInfo{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.GetFullName(),
			Role:     string(user.Role),
		},
	}, nil
}

func (i impl) Me(userID string) (userapimodels.UserView, error) {
	user, err := i.store.GetByID(userID)
	if err != nil {
		return userapimodels.UserView{}, err
	}
	if user == nil {
		return userapimodels.UserView{}, models.ErrNotFound
	}
	return userapimodels.UserConvert(*user), nil
}

func (i impl) Create(request userapimodels.UserData) (id string, err error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))
	logger := log.WithField("email", email)
	exist, err := i.store.ExistByEmail(email)
	if err != nil {
		return "", err
	}
	if exist {
		return "", errUserExist
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "ошибка хэширования пароля")
	}
	rec := dbmodels.User{
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(request.FirstName),
		LastName:  strings.TrimSpace(request.LastName),
		Company:   strings.TrimSpace(request.Company),
		Role:      request.Role,
		IsActive:  true,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания пользователя")
		return "", err
	}
	logger.
		WithField("rec_id", id).
		WithField("role", rec.Role).
		Info("создан пользователь")
	return id, nil
}

func (i impl) SetActive(id string, active bool) error {
	user, err := i.store.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return models.ErrNotFound
	}
	return i.store.Update(id, map[string]interface{}{"is_active": active})
}

func (i impl) List(role models.UserRole) ([]userapimodels.UserView, error) {
	recList, err := i.store.ListByRole(role)
	if err != nil {
		return nil, err
	}
	result := make([]userapimodels.UserView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, userapimodels.UserConvert(rec))
	}
	return result, nil
}
