package models

import "errors"

// Validation errors shared by the hazard domain.
var (
	ErrEmptyKind         = errors.New("hazard kind must not be empty")
	ErrUnknownKind       = errors.New("unknown hazard kind")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrMissingLocation   = errors.New("report has neither coordinates nor address")
)
