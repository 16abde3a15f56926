package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeStorageError       ErrorCode = "COMMON_015"
	ErrCodeMessagingError     ErrorCode = "COMMON_016"
	ErrCodeNotImplemented     ErrorCode = "COMMON_017"
)

// Short aliases used at call sites.
const (
	CodeUnknown      = ErrorCode("")
	CodeOK           = ErrorCode("OK")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeValidation   = ErrCodeValidation

	CodePatentNotFound = ErrCodePatentNotFound
)

// Patent Module Error Codes
const (
	ErrCodePatentNotFound      ErrorCode = "PAT_001"
	ErrCodePatentAlreadyExists ErrorCode = "PAT_002"
	ErrCodePatentDateInvalid   ErrorCode = "PAT_003"
	ErrCodePatentStatusInvalid ErrorCode = "PAT_004"
	ErrCodePatentTypeInvalid   ErrorCode = "PAT_005"
	ErrCodePatentNameRequired  ErrorCode = "PAT_006"
)

// Import Module Error Codes
const (
	ErrCodeImportEmptyInput     ErrorCode = "IMP_001"
	ErrCodeImportUnsupportedDoc ErrorCode = "IMP_002"
	ErrCodeImportDocumentRead   ErrorCode = "IMP_003"
	ErrCodeImportTooLarge       ErrorCode = "IMP_004"
	ErrCodeExportFailed         ErrorCode = "IMP_005"
)

// AI Module Error Codes
const (
	ErrCodeAINotConfigured   ErrorCode = "AI_001"
	ErrCodeAIInferenceFailed ErrorCode = "AI_002"
	ErrCodeAIResponseInvalid ErrorCode = "AI_003"
	ErrCodeAIInputInvalid    ErrorCode = "AI_004"
	ErrCodeAIUnsupported     ErrorCode = "AI_005"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodePatentNotFound:      http.StatusNotFound,
	ErrCodePatentAlreadyExists: http.StatusConflict,
	ErrCodePatentDateInvalid:   http.StatusBadRequest,
	ErrCodePatentStatusInvalid: http.StatusBadRequest,
	ErrCodePatentTypeInvalid:   http.StatusBadRequest,
	ErrCodePatentNameRequired:  http.StatusBadRequest,

	ErrCodeImportEmptyInput:     http.StatusBadRequest,
	ErrCodeImportUnsupportedDoc: http.StatusUnsupportedMediaType,
	ErrCodeImportDocumentRead:   http.StatusUnprocessableEntity,
	ErrCodeImportTooLarge:       http.StatusRequestEntityTooLarge,
	ErrCodeExportFailed:         http.StatusInternalServerError,

	ErrCodeAINotConfigured:   http.StatusServiceUnavailable,
	ErrCodeAIInferenceFailed: http.StatusBadGateway,
	ErrCodeAIResponseInvalid: http.StatusBadGateway,
	ErrCodeAIInputInvalid:    http.StatusBadRequest,
	ErrCodeAIUnsupported:     http.StatusNotImplemented,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeMessagingError:     "message publishing error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodePatentNotFound:      "patent not found",
	ErrCodePatentAlreadyExists: "patent already exists",
	ErrCodePatentDateInvalid:   "invalid patent date",
	ErrCodePatentStatusInvalid: "invalid patent status",
	ErrCodePatentTypeInvalid:   "invalid patent type",
	ErrCodePatentNameRequired:  "patent name is required",

	ErrCodeImportEmptyInput:     "nothing to import",
	ErrCodeImportUnsupportedDoc: "unsupported document type",
	ErrCodeImportDocumentRead:   "failed to read document",
	ErrCodeImportTooLarge:       "document too large",
	ErrCodeExportFailed:         "export failed",

	ErrCodeAINotConfigured:   "AI provider not configured",
	ErrCodeAIInferenceFailed: "AI inference failed",
	ErrCodeAIResponseInvalid: "AI response could not be parsed",
	ErrCodeAIInputInvalid:    "invalid input for AI model",
	ErrCodeAIUnsupported:     "operation not supported by AI provider",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
