package types

// AdvisorPriority ranks how urgently an advisor's critique should be acted on.
type AdvisorPriority string

// Advisor priorities.
const (
	PriorityLow    AdvisorPriority = "low"
	PriorityMedium AdvisorPriority = "medium"
	PriorityHigh   AdvisorPriority = "high"
)

// BoardAdvisor is one persona's take in a tactical critique.
type BoardAdvisor struct {
	Persona  string          `json:"persona"`
	Critique string          `json:"critique"`
	Priority AdvisorPriority `json:"priority"`
}

// TacticalCritique is the structured output of a critique run against a
// stored result. It is merged into the result via a library update.
type TacticalCritique struct {
	BlindSpots   []string       `json:"blindSpots"`
	HiddenRisks  []string       `json:"hiddenRisks"`
	GrowthLevers []string       `json:"growthLevers"`
	Advisors     []BoardAdvisor `json:"advisors"`
}
