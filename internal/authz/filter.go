package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/maturis/maturis/internal/shared"
)

// Resource names a row-owning resource type exposed through the API.
type Resource string

const (
	ResourceEvaluation Resource = "evaluation"
	ResourceFormulaire Resource = "formulaire"
	ResourceAnalyse    Resource = "analyse"
	ResourceEntreprise Resource = "entreprise"
)

// ConstraintKind enumerates how a list query must be narrowed.
type ConstraintKind int

const (
	// ConstraintNone applies no filter. Reserved for GLOBAL access.
	ConstraintNone ConstraintKind = iota
	// ConstraintEntreprise narrows rows to one enterprise.
	ConstraintEntreprise
	// ConstraintActor narrows rows to one owning actor.
	ConstraintActor
)

// Constraint is the filter directive attached to an allowed decision.
// Repositories translate it into a WHERE clause.
type Constraint struct {
	Kind         ConstraintKind
	EntrepriseID int64
	ActorID      int64
}

// NoConstraint is the GLOBAL directive: see everything.
var NoConstraint = Constraint{Kind: ConstraintNone}

// ByEntreprise narrows to rows owned by the given enterprise.
func ByEntreprise(id int64) Constraint {
	return Constraint{Kind: ConstraintEntreprise, EntrepriseID: id}
}

// ByActor narrows to rows owned by the given actor.
func ByActor(id int64) Constraint {
	return Constraint{Kind: ConstraintActor, ActorID: id}
}

// FilterFor computes the visibility constraint for a resource type under the
// given access. The returned decision is allowed with the constraint filled
// in, or a denial when the scope may never touch the resource type at all.
func FilterFor(access Access, resource Resource) Decision {
	switch resource {
	case ResourceEvaluation, ResourceFormulaire, ResourceAnalyse, ResourceEntreprise:
	default:
		return Deny(KindConfigurationFault, fmt.Sprintf("unrecognized resource type %q", resource))
	}

	switch access.Level {
	case LevelGlobal:
		return Allow(access, NoConstraint)

	case LevelEntreprise:
		return Allow(access, ByEntreprise(access.EntrepriseID))

	case LevelPersonnel:
		switch resource {
		case ResourceEvaluation, ResourceFormulaire:
			return Allow(access, ByActor(access.ActorID))
		case ResourceAnalyse:
			// Hard rule: personal-scope actors have no analysis visibility.
			return Deny(KindScopeViolation, "personal scope has no access to analyses")
		default:
			return Deny(KindScopeViolation, fmt.Sprintf("personal scope has no access to %s", resource))
		}

	case LevelLimited:
		return Deny(KindInsufficientRole, "role grants no data visibility")

	default:
		return Deny(KindConfigurationFault, fmt.Sprintf("unrecognized access level %d", access.Level))
	}
}

// Owner identifies who owns one stored resource instance.
type Owner struct {
	EntrepriseID int64
	ActorID      int64
}

// OwnerStore performs the point lookup for a single resource instance.
type OwnerStore interface {
	FetchOwner(ctx context.Context, resource Resource, id int64) (Owner, error)
}

// CheckOwner verifies that one specific resource instance falls inside the
// constraint derived from the access. The owner lookup result is compared
// once and never cached. A missing row denies as a scope violation, while a
// store fault converts to a fail-closed denial of its own kind.
func CheckOwner(ctx context.Context, store OwnerStore, access Access, resource Resource, id int64) Decision {
	decision := FilterFor(access, resource)
	if !decision.Allowed {
		return decision
	}
	if decision.Constraint.Kind == ConstraintNone {
		return decision
	}

	owner, err := store.FetchOwner(ctx, resource, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Deny(KindScopeViolation, fmt.Sprintf("%s %d does not exist", resource, id))
		}
		return Deny(KindStoreUnavailable, "ownership lookup failed")
	}

	switch decision.Constraint.Kind {
	case ConstraintEntreprise:
		if owner.EntrepriseID != decision.Constraint.EntrepriseID {
			return Deny(KindScopeViolation, fmt.Sprintf("%s %d belongs to another enterprise", resource, id))
		}
	case ConstraintActor:
		if owner.ActorID != decision.Constraint.ActorID {
			return Deny(KindScopeViolation, fmt.Sprintf("%s %d belongs to another actor", resource, id))
		}
	}
	return decision
}
