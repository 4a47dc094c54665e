package entities

import "errors"

// Domain errors. All of them are recoverable: the offending edit or record
// is rejected and the registry is left unchanged.
var (
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrPersonNotFound      = errors.New("person not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrBirthEventRequired  = errors.New("birth events cannot be deleted")
	ErrUnknownEventType    = errors.New("unknown event type")
	ErrMalformedRecord     = errors.New("malformed record")
	ErrInvalidEdit         = errors.New("invalid edit")
)
