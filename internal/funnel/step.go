package funnel

// StepID indexes the wizard steps, starting at 1.
type StepID int

const (
	StepIdentity StepID = iota + 1
	StepNeed
	StepDescription
	StepBudget
	StepTimeline
	StepContact
)

// TotalSteps is the number of steps in the wizard.
const TotalSteps = int(StepContact)

const (
	minNameLength        = 2
	minDescriptionLength = 10
)

// Step describes one screen of the wizard: the fields it collects and the
// predicate that must hold before the wizard may leave it.
type Step struct {
	ID     StepID   `json:"id"`
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
	valid  func(LeadForm) bool
}

// Valid reports whether form satisfies the step predicate.
func (s Step) Valid(form LeadForm) bool {
	return s.valid(form)
}

var steps = [TotalSteps]Step{
	{
		ID:     StepIdentity,
		Name:   "identity",
		Fields: []string{"first_name"},
		valid:  func(f LeadForm) bool { return trimmedLen(f.FirstName) >= minNameLength },
	},
	{
		ID:     StepNeed,
		Name:   "need",
		Fields: []string{"need"},
		valid:  func(f LeadForm) bool { return f.Need.Valid() },
	},
	{
		ID:     StepDescription,
		Name:   "description",
		Fields: []string{"description"},
		valid:  func(f LeadForm) bool { return trimmedLen(f.Description) >= minDescriptionLength },
	},
	{
		ID:     StepBudget,
		Name:   "budget",
		Fields: []string{"budget"},
		valid:  func(f LeadForm) bool { return f.Budget.Valid() },
	},
	{
		ID:     StepTimeline,
		Name:   "timeline",
		Fields: []string{"timeline"},
		valid:  func(f LeadForm) bool { return f.Timeline.Valid() },
	},
	{
		ID:     StepContact,
		Name:   "contact",
		Fields: []string{"email", "phone"},
		valid:  func(f LeadForm) bool { return ValidEmail(f.Email) },
	},
}

// StepAt returns the step with the given id.
func StepAt(id StepID) (Step, bool) {
	if id < StepIdentity || id > StepContact {
		return Step{}, false
	}
	return steps[id-1], true
}

// Steps returns every step in order.
func Steps() []Step {
	out := make([]Step, TotalSteps)
	copy(out, steps[:])
	return out
}

// ValidateAll checks every step predicate in order and returns the first
// failing step.
func ValidateAll(form LeadForm) (StepID, bool) {
	for _, s := range steps {
		if !s.valid(form) {
			return s.ID, false
		}
	}
	return 0, true
}
