package usecase

import "errors"

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeNotFound         = "NOT_FOUND"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeLeadNotFound     = "LEAD_NOT_FOUND"
	CodePipelineNotFound = "PIPELINE_NOT_FOUND"
	CodePageNotFound     = "PAGE_NOT_FOUND"
	CodeDatabase         = "DATABASE_ERROR"
)

// DomainError é um erro esperado, com mensagem segura para o cliente.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError é uma falha de infraestrutura. A mensagem fica só no log.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func validationError(msg string) error {
	return &DomainError{Code: CodeValidation, Message: msg}
}

func notFound(code, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func databaseError(msg string, err error) error {
	return &TechnicalError{Code: CodeDatabase, Message: msg, Err: err}
}

var errUnauthorized = &DomainError{Code: CodeUnauthorized, Message: "autenticação necessária"}
