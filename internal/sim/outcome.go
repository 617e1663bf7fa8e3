package sim

import "fmt"

type Outcome int

const (
	OutcomeInProgress Outcome = iota
	OutcomeHumansWin
	OutcomeZombiesWin
	OutcomeExtinction
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeHumansWin:
		return "humans_win"
	case OutcomeZombiesWin:
		return "zombies_win"
	case OutcomeExtinction:
		return "extinction"
	default:
		return "unknown"
	}
}

// Finished reports whether the outcome ends the run.
func (o Outcome) Finished() bool {
	return o != OutcomeInProgress
}

type OutcomeReason struct {
	Outcome     Outcome
	Census      Census
	Description string
}

func (r OutcomeReason) String() string {
	return fmt.Sprintf("%s: %s (%s)", r.Outcome, r.Description, r.Census)
}

// DetermineOutcome decides the run state from a census. Humans win once no
// zombie walks and nobody is still incubating; zombies win once no human does.
func DetermineOutcome(c Census) OutcomeReason {
	humans := c.Civilians + c.Cops
	switch {
	case humans == 0 && c.Zombies == 0:
		return OutcomeReason{Outcome: OutcomeExtinction, Census: c, Description: "no_survivors"}
	case c.Zombies == 0 && c.Incubating == 0:
		return OutcomeReason{Outcome: OutcomeHumansWin, Census: c, Description: "outbreak_contained"}
	case humans == 0:
		return OutcomeReason{Outcome: OutcomeZombiesWin, Census: c, Description: "town_overrun"}
	default:
		return OutcomeReason{Outcome: OutcomeInProgress, Census: c, Description: "outbreak_ongoing"}
	}
}

// Outcome is DetermineOutcome applied to the current census.
func (w *World) Outcome() OutcomeReason {
	return DetermineOutcome(w.Census())
}
