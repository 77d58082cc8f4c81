package dto

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Request errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeInvalidColumn    ErrorCode = "VAL_002"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
	ErrorCodeDatabaseError  ErrorCode = "SRV_002"
	ErrorCodeUnavailable    ErrorCode = "SRV_003"
	ErrorCodeTimeout        ErrorCode = "SRV_004"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code      ErrorCode   `json:"code" example:"VAL_001"`
	Message   string      `json:"message" example:"Unknown report layout"`
	Field     string      `json:"field,omitempty" example:"layout"`
	Details   interface{} `json:"details,omitempty"`
	DebugInfo string      `json:"debugInfo,omitempty"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:    code,
		Message: message,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// WithDebugInfo adds debug information (for development/testing only)
func (e *ErrorDetail) WithDebugInfo(format string, args ...interface{}) *ErrorDetail {
	e.DebugInfo = fmt.Sprintf(format, args...)
	return e
}

// APIResponse is the envelope of every API response
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorResponse wraps an error detail in the response envelope
func NewErrorResponse(detail *ErrorDetail) APIResponse {
	return APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	}
}

// GradeReportResponse is the JSON form of a grade-average report
type GradeReportResponse struct {
	Layout     string                   `json:"layout" example:"pivot"`
	KeyColumns []string                 `json:"keyColumns" example:"studentid"`
	Columns    []string                 `json:"columns" example:"L1_AvgGrade"`
	Rows       []map[string]interface{} `json:"rows"`
	Query      string                   `json:"query,omitempty"`
}
