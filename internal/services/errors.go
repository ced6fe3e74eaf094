package services

import (
	"fmt"

	"github.com/abrezinsky/rosterdraw/internal/partition"
)

// Service errors
var (
	ErrConfirmationRequired = &ServiceError{Message: "this action clears state and requires confirm=true"}
	ErrInvalidGroupSize     = &ServiceError{Message: fmt.Sprintf("group size must be between %d and %d", partition.MinGroupSize, partition.MaxGroupSize)}
	ErrInvalidBaseURL       = &ServiceError{Message: "base_url must be an absolute http or https URL"}
	ErrNoGroups             = &ServiceError{Message: "no groups have been generated yet"}
	ErrInvalidEncoding      = &ServiceError{Message: "invalid file encoding, expected UTF-8 text"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
