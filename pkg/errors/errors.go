package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

// Generic codes cover the error taxonomy; domain codes carry the stable,
// machine-readable identifiers clients branch on.
const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeProvider     Code = "EXTERNAL_PROVIDER_ERROR"

	CodeEmailExists     Code = "EMAIL_ALREADY_EXISTS"
	CodeDocumentExists  Code = "DOCUMENT_ALREADY_EXISTS"
	CodeSKUExists       Code = "SKU_ALREADY_EXISTS"
	CodeClientNotFound  Code = "CLIENT_NOT_FOUND"
	CodeUserIsNotClient Code = "USER_IS_NOT_CLIENT"
	CodeInvalidProvider Code = "INVALID_PROVIDER"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		Retryable:      false,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeUnauthorized: {
		HTTPStatus:     http.StatusUnauthorized,
		Retryable:      false,
		PublicMessage:  "authentication required",
		DetailsAllowed: false,
	},
	CodeForbidden: {
		HTTPStatus:     http.StatusForbidden,
		Retryable:      false,
		PublicMessage:  "access denied",
		DetailsAllowed: false,
	},
	CodeNotFound: {
		HTTPStatus:     http.StatusNotFound,
		Retryable:      false,
		PublicMessage:  "resource not found",
		DetailsAllowed: false,
	},
	CodeConflict: {
		HTTPStatus:     http.StatusConflict,
		Retryable:      false,
		PublicMessage:  "conflict detected",
		DetailsAllowed: false,
	},
	CodeRateLimit: {
		HTTPStatus:     http.StatusTooManyRequests,
		Retryable:      false,
		PublicMessage:  "rate limit exceeded",
		DetailsAllowed: false,
	},
	CodeInternal: {
		HTTPStatus:     http.StatusInternalServerError,
		Retryable:      true,
		PublicMessage:  "internal server error",
		DetailsAllowed: false,
	},
	CodeProvider: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		PublicMessage:  "external provider unavailable",
		DetailsAllowed: true,
	},
	CodeEmailExists: {
		HTTPStatus:     http.StatusConflict,
		Retryable:      false,
		PublicMessage:  "el correo ya fue registrado previamente",
		DetailsAllowed: false,
	},
	CodeDocumentExists: {
		HTTPStatus:     http.StatusConflict,
		Retryable:      false,
		PublicMessage:  "el documento ya fue registrado previamente",
		DetailsAllowed: false,
	},
	CodeSKUExists: {
		HTTPStatus:     http.StatusConflict,
		Retryable:      false,
		PublicMessage:  "el SKU ya existe",
		DetailsAllowed: false,
	},
	CodeClientNotFound: {
		HTTPStatus:     http.StatusBadRequest,
		Retryable:      false,
		PublicMessage:  "no hay un cliente asociado a ese correo",
		DetailsAllowed: false,
	},
	CodeUserIsNotClient: {
		HTTPStatus:     http.StatusBadRequest,
		Retryable:      false,
		PublicMessage:  "este correo no pertenece a un cliente",
		DetailsAllowed: false,
	},
	CodeInvalidProvider: {
		HTTPStatus:     http.StatusBadRequest,
		Retryable:      false,
		PublicMessage:  "este correo está registrado con un proveedor externo",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
