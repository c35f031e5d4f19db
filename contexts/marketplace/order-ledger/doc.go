// Package orderledger creates and tracks orders binding a customer, a
// business user and one pricing package of an offer.
//
// The business user on every order is derived from the resolved offer's
// owner; it can never be asserted by the caller. Status moves along the
// chain pending -> in_progress -> completed, with cancellation from any
// non-terminal status.
package orderledger
