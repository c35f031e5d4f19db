package errors

import "errors"

var (
	ErrInvalidOfferInput   = errors.New("invalid offer input")
	ErrDuplicateTier       = errors.New("duplicate tier in detail list")
	ErrTierConflict        = errors.New("tier already exists for this offer")
	ErrOfferNotFound       = errors.New("offer not found")
	ErrOfferDetailNotFound = errors.New("offer detail not found")
	ErrForbidden           = errors.New("forbidden")
)
