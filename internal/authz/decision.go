package authz

import (
	"log/slog"
	"net/http"
)

// Kind classifies why a request was denied.
type Kind int

const (
	// KindNone marks an allowed decision.
	KindNone Kind = iota
	// KindUnauthenticated means no or invalid credential.
	KindUnauthenticated
	// KindInsufficientRole means the actor's role tier is too low.
	KindInsufficientRole
	// KindInsufficientPermission means the module/action grant is missing.
	KindInsufficientPermission
	// KindScopeViolation means the target resource lies outside the actor's scope.
	KindScopeViolation
	// KindConfigurationFault means an unrecognized module, action, resource
	// type or role string. Signals a caller bug, not a legitimate denial.
	KindConfigurationFault
	// KindStoreUnavailable means an underlying store failed. Always a deny.
	KindStoreUnavailable
)

// String returns the reason category name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInsufficientRole:
		return "insufficient_role"
	case KindInsufficientPermission:
		return "insufficient_permission"
	case KindScopeViolation:
		return "scope_violation"
	case KindConfigurationFault:
		return "configuration_fault"
	case KindStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// HTTPStatus maps the denial kind to the status the handler should return.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNone:
		return http.StatusOK
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusForbidden
	}
}

// LogLevel returns the severity a denial of this kind should be logged at.
// Configuration faults point at bugs and log higher than routine denials.
func (k Kind) LogLevel() slog.Level {
	switch k {
	case KindConfigurationFault, KindStoreUnavailable:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Decision is the ephemeral outcome of one authorization evaluation. It lives
// for the duration of a single request and is never persisted.
type Decision struct {
	Allowed    bool
	Kind       Kind
	Reason     string
	HTTPStatus int
	Access     Access
	Constraint Constraint
}

// Allow builds an allowed decision carrying the resolved scope and filter.
func Allow(access Access, constraint Constraint) Decision {
	return Decision{
		Allowed:    true,
		HTTPStatus: http.StatusOK,
		Access:     access,
		Constraint: constraint,
	}
}

// Deny builds a denial of the given kind with a human-readable reason.
func Deny(kind Kind, reason string) Decision {
	return Decision{
		Kind:       kind,
		Reason:     reason,
		HTTPStatus: kind.HTTPStatus(),
	}
}

// Redacted returns a copy safe for production responses: the reason category
// survives, internal diagnostic detail does not.
func (d Decision) Redacted() Decision {
	if d.Allowed {
		return d
	}
	out := d
	out.Reason = d.Kind.String()
	return out
}
