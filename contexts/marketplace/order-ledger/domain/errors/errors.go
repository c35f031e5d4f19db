package errors

import "errors"

var (
	ErrInvalidOrderInput   = errors.New("invalid order input")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOfferDetailNotFound = errors.New("offer detail not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidTransition   = errors.New("invalid status transition")
)
