package models

import "github.com/pkg/errors"

type ErrorKind int

const (
	ValidationErrorKind ErrorKind = iota + 1
	NotFoundErrorKind
	ConflictErrorKind
	ForbiddenErrorKind
	ExternalServiceErrorKind
)

// AppError ошибка прикладного уровня, message отдается клиенту как есть
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(code, message string) *AppError {
	return &AppError{Kind: ValidationErrorKind, Code: code, Message: message}
}

func NewNotFoundError(code, message string) *AppError {
	return &AppError{Kind: NotFoundErrorKind, Code: code, Message: message}
}

func NewConflictError(code, message string) *AppError {
	return &AppError{Kind: ConflictErrorKind, Code: code, Message: message}
}

func NewForbiddenError(code, message string) *AppError {
	return &AppError{Kind: ForbiddenErrorKind, Code: code, Message: message}
}

func NewExternalServiceError(code, message string) *AppError {
	return &AppError{Kind: ExternalServiceErrorKind, Code: code, Message: message}
}

// AsAppError достает AppError из цепочки обернутых ошибок
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// сетка страницы
var (
	ErrInvalidLayout    = NewValidationError("INVALID_LAYOUT", "неизвестная схема страницы")
	ErrInvalidPromoSize = NewValidationError("INVALID_PROMO_SIZE", "неизвестный размер промо-изображения")
	ErrInvalidPlacement = NewValidationError("INVALID_PLACEMENT", "промо-изображение выходит за границы сетки страницы")
	ErrInvalidPosition  = NewValidationError("INVALID_POSITION", "позиция вне сетки страницы")
	ErrSlotConflict     = NewConflictError("SLOT_CONFLICT", "ячейки для промо-изображения уже заняты")
	ErrSlotOccupied     = NewConflictError("SLOT_OCCUPIED", "ячейка уже занята")
	ErrPromoNotFound    = NewNotFoundError("PROMO_NOT_FOUND", "промо-изображение на странице не найдено")
	ErrSlotEmpty        = NewNotFoundError("SLOT_EMPTY", "в ячейке нет товара")
	ErrPageNotEmpty     = NewConflictError("PAGE_NOT_EMPTY", "схему можно менять только у пустой страницы")
)

// листовка
var (
	ErrFlyerNotFound    = NewNotFoundError("FLYER_NOT_FOUND", "листовка не найдена")
	ErrPageNotFound     = NewNotFoundError("PAGE_NOT_FOUND", "страница листовки не найдена")
	ErrFlyerNotEditable = NewConflictError("FLYER_NOT_EDITABLE", "листовку можно изменять только в статусе черновик или отклонена")
	ErrFlyerEmpty       = NewValidationError("FLYER_EMPTY", "в листовке нет ни одного товара")
	ErrStatusChange     = NewConflictError("STATUS_CHANGE_NOT_ALLOWED", "изменение статуса листовки недопустимо")
	ErrNotYetValid      = NewConflictError("FLYER_NOT_YET_VALID", "срок действия листовки еще не наступил")
)

// согласование
var (
	ErrDuplicateApproval     = NewConflictError("DUPLICATE_APPROVAL", "согласующий уже назначен на листовку")
	ErrApprovalNotFound      = NewNotFoundError("APPROVAL_NOT_FOUND", "задача согласования не найдена")
	ErrAlreadyDecided        = NewConflictError("ALREADY_DECIDED", "решение по задаче уже принято")
	ErrPreApprovalIncomplete = NewConflictError("PRE_APPROVAL_INCOMPLETE", "предварительное согласование не завершено")
	ErrWorkflowClosed        = NewConflictError("WORKFLOW_CLOSED", "согласование листовки уже завершено")
	ErrWorkflowNotFound      = NewNotFoundError("WORKFLOW_NOT_FOUND", "листовка не находится на согласовании")
	ErrNotApprover           = NewValidationError("NOT_APPROVER", "пользователь не является согласующим")
	ErrInvalidDecision       = NewValidationError("INVALID_DECISION", "решение должно быть approved или rejected")
	ErrFlyerBusy             = NewConflictError("FLYER_BUSY", "листовка обрабатывается другим запросом, повторите попытку")
)

// справочники, файлы, права
var (
	ErrNotFound          = NewNotFoundError("NOT_FOUND", "запись не найдена")
	ErrForbidden         = NewForbiddenError("FORBIDDEN", "операция недоступна")
	ErrUnsupportedImage  = NewValidationError("UNSUPPORTED_IMAGE", "допустимы только изображения JPEG, PNG, WebP, GIF")
	ErrImageTooLarge     = NewValidationError("IMAGE_TOO_LARGE", "размер изображения превышает допустимый")
	ErrPromoImageInUse   = NewConflictError("PROMO_IMAGE_IN_USE", "промо-изображение размещено в листовке")
	ErrErpUnavailable    = NewExternalServiceError("ERP_UNAVAILABLE", "ERP недоступна")
	ErrInvalidCredential = NewValidationError("INVALID_CREDENTIALS", "неверный логин или пароль")
)
