package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConfig     ErrorType = "CONFIG_ERROR"
	ErrorTypeData       ErrorType = "DATA_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal   ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodePlanNotFound         ErrorCode = "PLAN_NOT_FOUND"
	ErrCodePlanStoreUnavailable ErrorCode = "PLAN_STORE_UNAVAILABLE"
	ErrCodeGatewayConfigMissing ErrorCode = "GATEWAY_CONFIG_MISSING"
	ErrCodeMalformedPrice       ErrorCode = "MALFORMED_PRICE"

	ErrCodeCouponConfig      ErrorCode = "COUPON_CONFIG_ERROR"
	ErrCodeCouponInvalid     ErrorCode = "COUPON_INVALID"
	ErrCodeCouponUnavailable ErrorCode = "COUPON_UNAVAILABLE"

	ErrCodeGatewayRejected          ErrorCode = "GATEWAY_REJECTED"
	ErrCodeGatewayResponseMalformed ErrorCode = "GATEWAY_RESPONSE_MALFORMED"
	ErrCodeGatewayUnavailable       ErrorCode = "GATEWAY_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError is the single failure shape of the checkout pipeline. Message is
// safe to show to the caller; Cause is for logs only.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so callers can test with errors.Is(err, internal.ErrCouponInvalid).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func newError(t ErrorType, code ErrorCode, status int, message string) *AppError {
	return &AppError{
		Type:       t,
		Code:       code,
		Message:    message,
		StatusCode: status,
	}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newError(ErrorTypeValidation, code, http.StatusBadRequest, message)
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewPlanNotFoundError(planID string) *AppError {
	return newError(ErrorTypeNotFound, ErrCodePlanNotFound, http.StatusNotFound,
		fmt.Sprintf("pricing plan %q not found", planID))
}

func NewPlanStoreUnavailableError(cause error) *AppError {
	return newError(ErrorTypeExternal, ErrCodePlanStoreUnavailable, http.StatusBadGateway,
		"pricing plan store is unavailable").WithCause(cause)
}

func NewGatewayConfigMissingError(message string) *AppError {
	return newError(ErrorTypeConfig, ErrCodeGatewayConfigMissing, http.StatusBadRequest, message)
}

func NewMalformedPriceError(raw string) *AppError {
	return newError(ErrorTypeData, ErrCodeMalformedPrice, http.StatusInternalServerError,
		"pricing plan has an invalid price").WithCause(fmt.Errorf("unparseable price %q", raw))
}

func NewCouponConfigError(message string) *AppError {
	return newError(ErrorTypeConfig, ErrCodeCouponConfig, http.StatusBadRequest, message)
}

// NewCouponInvalidError carries the coupon service's own user-facing reason.
func NewCouponInvalidError(message string) *AppError {
	return newError(ErrorTypeValidation, ErrCodeCouponInvalid, http.StatusBadRequest, message)
}

func NewCouponUnavailableError(cause error) *AppError {
	return newError(ErrorTypeExternal, ErrCodeCouponUnavailable, http.StatusBadGateway,
		"coupon could not be validated").WithCause(cause)
}

func NewGatewayRejectedError(cause error) *AppError {
	return newError(ErrorTypeExternal, ErrCodeGatewayRejected, http.StatusBadGateway,
		"payment gateway rejected the payment").WithCause(cause)
}

func NewGatewayResponseMalformedError(cause error) *AppError {
	return newError(ErrorTypeExternal, ErrCodeGatewayResponseMalformed, http.StatusBadGateway,
		"payment gateway returned no redirect url").WithCause(cause)
}

func NewGatewayUnavailableError(cause error) *AppError {
	return newError(ErrorTypeExternal, ErrCodeGatewayUnavailable, http.StatusServiceUnavailable,
		"payment gateway is unavailable").WithCause(cause)
}

func NewInternalError(message string, cause error) *AppError {
	return newError(ErrorTypeInternal, ErrCodeInternal, http.StatusInternalServerError, message).WithCause(cause)
}

// Sentinels for errors.Is; never returned directly.
var (
	ErrPlanNotFound             = &AppError{Code: ErrCodePlanNotFound}
	ErrPlanStoreUnavailable     = &AppError{Code: ErrCodePlanStoreUnavailable}
	ErrGatewayConfigMissing     = &AppError{Code: ErrCodeGatewayConfigMissing}
	ErrMalformedPrice           = &AppError{Code: ErrCodeMalformedPrice}
	ErrCouponConfig             = &AppError{Code: ErrCodeCouponConfig}
	ErrCouponInvalid            = &AppError{Code: ErrCodeCouponInvalid}
	ErrCouponUnavailable        = &AppError{Code: ErrCodeCouponUnavailable}
	ErrGatewayRejected          = &AppError{Code: ErrCodeGatewayRejected}
	ErrGatewayResponseMalformed = &AppError{Code: ErrCodeGatewayResponseMalformed}
	ErrGatewayUnavailable       = &AppError{Code: ErrCodeGatewayUnavailable}
	ErrInternal                 = &AppError{Code: ErrCodeInternal}
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// AsAppError classifies err, wrapping anything unclassified as InternalError.
func AsAppError(err error) *AppError {
	if appErr, ok := IsAppError(err); ok {
		return appErr
	}
	return NewInternalError("internal server error", err)
}

// Response is the outward error body: {"error": "...", "code": "..."}.
type Response struct {
	Error   string      `json:"error"`
	Code    ErrorCode   `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e.GetDetailedMessage(), Code: e.Code, Details: e.Details}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
