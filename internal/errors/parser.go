package errors

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ErrorInfo is a code and message safe to show to API callers.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError classifies a store or infrastructure error. Driver details are
// logged by the caller, never returned.
func ParseError(err error, operation string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(operation)}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return ErrorInfo{Code: ResourceNotFound, Message: "Address not found"}
	}

	errLower := strings.ToLower(err.Error())

	if mongo.IsDuplicateKeyError(err) ||
		strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Address already exists"}
	}

	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return ErrorInfo{Code: InternalTimeout, Message: getDefaultErrorMessage(operation)}
	}

	if mongo.IsNetworkError(err) ||
		strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "server selection") {
		return ErrorInfo{Code: InternalDatabaseError, Message: getDefaultErrorMessage(operation)}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(operation)}
}

// getDefaultErrorMessage returns the fixed message for a failed operation,
// keyed by its leading verb ("add address", "list addresses", ...).
func getDefaultErrorMessage(operation string) string {
	verb, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(operation)), " ")

	switch verb {
	case "add", "create":
		return "Failed to add address"
	case "list", "get":
		return "Can't get addresses"
	case "update":
		return "Failed to update address"
	case "delete":
		return "Failed to delete address"
	case "export":
		return "Failed to export addresses"
	}
	return "An error occurred. Please try again."
}

// ParseAndRespond classifies err and writes it with the given status.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, operation string) {
	errorInfo := ParseError(err, operation)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
