package authz

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Level describes the breadth of data an actor may see.
type Level int

const (
	// LevelLimited grants no visibility. Unrecognized roles land here.
	LevelLimited Level = iota
	// LevelPersonnel restricts visibility to resources owned by the actor.
	LevelPersonnel
	// LevelEntreprise restricts visibility to the actor's own enterprise.
	LevelEntreprise
	// LevelGlobal grants visibility over every enterprise.
	LevelGlobal
)

// String returns the canonical name of the level.
func (l Level) String() string {
	switch l {
	case LevelGlobal:
		return "GLOBAL"
	case LevelEntreprise:
		return "ENTREPRISE"
	case LevelPersonnel:
		return "PERSONNEL"
	default:
		return "LIMITED"
	}
}

// Role names as stored in the roles reference table.
const (
	RoleConsultant          = "CONSULTANT"
	RoleAdministrateur      = "ADMINISTRATEUR"
	RoleSuperAdministrateur = "SUPER_ADMINISTRATEUR"
	RoleManager             = "MANAGER"
	RoleIntervenant         = "INTERVENANT"
)

// Actor is the per-request snapshot of an authenticated account.
type Actor struct {
	ID           int64
	RoleName     string
	EntrepriseID int64
	Active       bool
}

// Access is the resolved access descriptor for one request. It is derived
// from the role name and the actor, never stored, and recomputed per request.
type Access struct {
	Level  Level
	Global bool

	ActorID      int64
	EntrepriseID int64

	CanViewAllEntreprises bool
	CanViewAllEvaluations bool
	CanViewAllFormulaires bool

	// LandingRoute hints where the UI should send the actor after login.
	// Authorization itself never reads it.
	LandingRoute string
}

// Role names are French; cases.Upper folds accented characters correctly
// where strings.ToUpper would only handle ASCII.
var upperFR = cases.Upper(language.French)

// Resolve maps a role name to an access descriptor. It is pure: same inputs,
// same output, no I/O. Unrecognized or empty role names resolve to LIMITED.
func Resolve(roleName string, actor Actor) Access {
	access := Access{
		Level:        LevelLimited,
		ActorID:      actor.ID,
		EntrepriseID: actor.EntrepriseID,
		LandingRoute: "/acces-refuse",
	}

	switch upperFR.String(strings.TrimSpace(roleName)) {
	case RoleConsultant, RoleAdministrateur, RoleSuperAdministrateur:
		access.Level = LevelGlobal
		access.Global = true
		access.CanViewAllEntreprises = true
		access.CanViewAllEvaluations = true
		access.CanViewAllFormulaires = true
		access.LandingRoute = "/tableau-de-bord"
	case RoleManager:
		access.Level = LevelEntreprise
		access.LandingRoute = "/entreprise"
	case RoleIntervenant:
		// Strict personal scope. EntrepriseID stays populated because older
		// callers still read an enterprise-shaped scope off the descriptor.
		access.Level = LevelPersonnel
		access.LandingRoute = "/mes-evaluations"
	}

	return access
}
