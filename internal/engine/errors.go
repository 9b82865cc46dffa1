package engine

import (
	"errors"
	"fmt"
)

// IngestError represents an error detected while ingesting a record update.
// Every ingest failure is attributed to one of the error kinds Felix's
// error taxonomy distinguishes (§7): the batch never partially commits
// regardless of which kind fired.
type IngestError struct {
	// Code identifies the error category.
	Code IngestErrorCode

	// Message is a human-readable description.
	Message string

	// RecordID identifies the record being ingested, when known.
	RecordID uint64

	// FieldName identifies the offending field, when the error is
	// field-scoped.
	FieldName string
}

// IngestErrorCode categorizes ingest errors per §7.
type IngestErrorCode string

const (
	// ErrCodeValidation indicates a typed input failed canonicalization
	// (bad UTF-8, NaN float, malformed UUID, oversized value, and so on).
	ErrCodeValidation IngestErrorCode = "VALIDATION"

	// ErrCodeResourceLimit indicates a batch exceeded a configured resource
	// limit (§4.1, §5): too many fields per ingest. Oversized text, bytes
	// and field names are rejected earlier, during canonicalization.
	ErrCodeResourceLimit IngestErrorCode = "RESOURCE_LIMIT"

	// ErrCodeConflict indicates a fact could not be appended because one
	// already exists for the same (record_id, field_id, ts).
	ErrCodeConflict IngestErrorCode = "CONFLICT"

	// ErrCodeReferential indicates a query referenced a field or value
	// that has never been interned.
	ErrCodeReferential IngestErrorCode = "REFERENTIAL"

	// ErrCodeStorage indicates the underlying database returned an
	// unexpected error (not classifiable as one of the above).
	ErrCodeStorage IngestErrorCode = "STORAGE"

	// ErrCodeFormat indicates malformed NDJSON or textual input framing.
	ErrCodeFormat IngestErrorCode = "FORMAT"
)

// Error implements the error interface.
func (e *IngestError) Error() string {
	if e.FieldName != "" {
		return fmt.Sprintf("%s: %s (record=%d, field=%s)", e.Code, e.Message, e.RecordID, e.FieldName)
	}
	if e.RecordID != 0 {
		return fmt.Sprintf("%s: %s (record=%d)", e.Code, e.Message, e.RecordID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidationError reports whether err is (or wraps) a validation
// failure, per errors.As.
func IsValidationError(err error) bool {
	var ie *IngestError
	return errors.As(err, &ie) && ie.Code == ErrCodeValidation
}

// IsResourceLimitError reports whether err is (or wraps) a resource-limit
// violation.
func IsResourceLimitError(err error) bool {
	var ie *IngestError
	return errors.As(err, &ie) && ie.Code == ErrCodeResourceLimit
}

// IsConflictError reports whether err is (or wraps) a fact-log conflict.
func IsConflictError(err error) bool {
	var ie *IngestError
	return errors.As(err, &ie) && ie.Code == ErrCodeConflict
}

// NewValidationError wraps a canonicalization failure in an IngestError.
func NewValidationError(recordID uint64, fieldName string, err error) *IngestError {
	return &IngestError{Code: ErrCodeValidation, Message: err.Error(), RecordID: recordID, FieldName: fieldName}
}

// NewResourceLimitError reports a resource-limit violation.
func NewResourceLimitError(recordID uint64, message string) *IngestError {
	return &IngestError{Code: ErrCodeResourceLimit, Message: message, RecordID: recordID}
}

// NewStorageError wraps an unclassified database error.
func NewStorageError(recordID uint64, err error) *IngestError {
	return &IngestError{Code: ErrCodeStorage, Message: err.Error(), RecordID: recordID}
}

// NewFormatError reports malformed input framing (NDJSON line, textual
// field token) unrelated to any single record's canonicalization.
func NewFormatError(message string) *IngestError {
	return &IngestError{Code: ErrCodeFormat, Message: message}
}
