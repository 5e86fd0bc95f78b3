package services

import "errors"

// Common service errors
var (
	ErrNotFound             = errors.New("record not found")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidState         = errors.New("invalid state transition")
	ErrDuplicate            = errors.New("duplicate record")
	ErrApartmentUnavailable = errors.New("apartment is not available")
	ErrApartmentImmutable   = errors.New("contract apartment cannot be changed")
	ErrPaymentExceedsTotal  = errors.New("payment would exceed contract total")
	ErrHasContracts         = errors.New("record has linked contracts")
	ErrContractNotCompleted = errors.New("contract is not completed")
	ErrBlockNotEmpty        = errors.New("block still has apartments")
	ErrUserInactive         = errors.New("user account is inactive")
)
