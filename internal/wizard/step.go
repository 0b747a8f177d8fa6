// ABOUTME: Wizard step definitions, ordering, and route construction
// ABOUTME: sector -> informations -> configuration -> recapitulatif, previous-only backward edge

package wizard

// Step identifies one page of the agent-creation wizard.
type Step string

// Wizard steps, in order. There is no skip-ahead transition: steps are
// reached in order, via Previous, or by direct URL (which is deliberately
// not prevented, matching the dashboard's route-only ordering).
const (
	StepSector        Step = "sector"
	StepInformations  Step = "informations"
	StepConfiguration Step = "configuration"
	StepRecap         Step = "recapitulatif"
)

// RouteAgentList is the navigation target when leaving the wizard.
const RouteAgentList = "/agents"

var stepOrder = []Step{StepSector, StepInformations, StepConfiguration, StepRecap}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	for _, step := range stepOrder {
		if step == s {
			return true
		}
	}
	return false
}

// Next returns the following step, or false on the terminal step.
func (s Step) Next() (Step, bool) {
	for i, step := range stepOrder {
		if step == s && i+1 < len(stepOrder) {
			return stepOrder[i+1], true
		}
	}
	return "", false
}

// Previous returns the preceding step, or false on the first step.
func (s Step) Previous() (Step, bool) {
	for i, step := range stepOrder {
		if step == s && i > 0 {
			return stepOrder[i-1], true
		}
	}
	return "", false
}

// Route returns the wizard route for a step, carrying the record id once
// one exists.
func (s Step) Route(recordID string) string {
	route := "/agents/wizard/" + string(s)
	if recordID != "" {
		route += "?id=" + recordID
	}
	return route
}
