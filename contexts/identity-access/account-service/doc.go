// Package accountservice registers user accounts, authenticates them and
// serves their public profiles.
//
// Tokens issued at registration and login are resolved back into an
// identity on every authenticated request; profile mutation is self-only.
package accountservice
