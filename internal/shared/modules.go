package shared

// Module codes as stored in the modules reference table. Permission grants
// key off these plus an action (view/edit/delete/admin).
const (
	ModuleUtilisateurs   = "utilisateurs"
	ModuleRoles          = "roles"
	ModuleEntreprises    = "entreprises"
	ModuleQuestionnaires = "questionnaires"
	ModuleFormulaires    = "formulaires"
	ModuleEvaluations    = "evaluations"
	ModuleAnalyses       = "analyses"
	ModuleAdministration = "administration"
)

// PlatformModules lists every module code the backend knows about.
func PlatformModules() []string {
	return []string{
		ModuleUtilisateurs,
		ModuleRoles,
		ModuleEntreprises,
		ModuleQuestionnaires,
		ModuleFormulaires,
		ModuleEvaluations,
		ModuleAnalyses,
		ModuleAdministration,
	}
}
