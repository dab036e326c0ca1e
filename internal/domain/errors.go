package domain

import "errors"

// Domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNameRequired    = errors.New("name is required")
	ErrNameTooLong     = errors.New("name exceeds maximum length")
	ErrInvalidMonthKey = errors.New("invalid month key")

	ErrClientNotFound  = errors.New("client not found")
	ErrAreaNotFound    = errors.New("area not found")
	ErrServiceNotFound = errors.New("service record not found")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrAgendaNotFound  = errors.New("agenda item not found")

	ErrPartnerSlotTaken   = errors.New("partner slot already linked to another client")
	ErrUnknownPartnerSlot = errors.New("unknown partner slot")
	ErrPartnerSlotRole    = errors.New("partner slot cannot be linked to a client")
	ErrInvalidRoster      = errors.New("invalid partner roster")

	// ErrMonthAlreadyClosed is returned when an archive already exists for the month key
	ErrMonthAlreadyClosed = errors.New("month already closed")
	// ErrMonthNotClosed is returned when reopening a month without an archive
	ErrMonthNotClosed = errors.New("month is not closed")
	// ErrMonthClosed is returned when mutating records of an archived month
	ErrMonthClosed = errors.New("month is closed")
	// ErrRecordClosed is returned when mutating a record flagged closed
	ErrRecordClosed = errors.New("record is closed")

	// ErrPersistence wraps ledger store failures (network, constraint violations)
	ErrPersistence = errors.New("ledger store failure")
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 500
)
