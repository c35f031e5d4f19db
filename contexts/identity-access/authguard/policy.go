// Package authguard is the cross-cutting ownership/role policy consulted by
// the offer catalog and the order ledger before any mutation.
package authguard

const (
	RoleCustomer = "customer"
	RoleBusiness = "business"
)

const (
	ActionReadOffer     = "offer.read"
	ActionCreateOffer   = "offer.create"
	ActionMutateOffer   = "offer.mutate"
	ActionCreateOrder   = "order.create"
	ActionMutateOrder   = "order.mutate"
	ActionMutateProfile = "profile.mutate"
)

type Decision int

const (
	Forbid Decision = iota
	Allow
)

// Actor is the acting identity resolved from a bearer token. A zero Actor is
// unauthenticated.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) Authenticated() bool {
	return a.ID != ""
}

// Resource carries the ownership facts a policy decision needs. OwnerID is
// the owning user for owner-scoped resources; PartyIDs are all users who are
// party to the resource (order customer and business user).
type Resource struct {
	OwnerID  string
	PartyIDs []string
}

// Decide evaluates the stateless policy. Denials must surface to callers as
// forbidden errors, never as empty results.
func Decide(actor Actor, action string, resource Resource) Decision {
	switch action {
	case ActionReadOffer:
		return Allow
	case ActionCreateOffer:
		if actor.Authenticated() && actor.Role == RoleBusiness {
			return Allow
		}
	case ActionMutateOffer, ActionMutateProfile:
		if actor.Authenticated() && actor.ID == resource.OwnerID {
			return Allow
		}
	case ActionCreateOrder:
		if actor.Authenticated() {
			return Allow
		}
	case ActionMutateOrder:
		if !actor.Authenticated() {
			return Forbid
		}
		for _, party := range resource.PartyIDs {
			if party == actor.ID {
				return Allow
			}
		}
	}
	return Forbid
}
