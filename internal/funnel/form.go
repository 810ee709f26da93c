package funnel

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Need is the category of work a lead is asking for.
type Need string

const (
	NeedAutomation    Need = "automation"
	NeedInternalTool  Need = "internal-tool"
	NeedWebsite       Need = "website"
	NeedMobileApp     Need = "mobile-app"
	NeedAIIntegration Need = "ai-integration"
	NeedOther         Need = "other"
)

// Budget is the bracket a lead expects to spend.
type Budget string

const (
	BudgetUnder2k  Budget = "under-2k"
	Budget2kTo5k   Budget = "2k-5k"
	Budget5kTo10k  Budget = "5k-10k"
	Budget10kTo20k Budget = "10k-20k"
	BudgetOver20k  Budget = "over-20k"
)

// Timeline is how soon a lead wants the project delivered.
type Timeline string

const (
	TimelineASAP          Timeline = "asap"
	TimelineWithin1Month  Timeline = "within-1-month"
	TimelineWithin3Months Timeline = "within-3-months"
	TimelineFlexible      Timeline = "flexible"
)

var (
	needOptions     = []Need{NeedAutomation, NeedInternalTool, NeedWebsite, NeedMobileApp, NeedAIIntegration, NeedOther}
	budgetOptions   = []Budget{BudgetUnder2k, Budget2kTo5k, Budget5kTo10k, Budget10kTo20k, BudgetOver20k}
	timelineOptions = []Timeline{TimelineASAP, TimelineWithin1Month, TimelineWithin3Months, TimelineFlexible}
)

// NeedOptions lists the selectable needs in display order.
func NeedOptions() []Need { return slices.Clone(needOptions) }

// BudgetOptions lists the selectable budgets in display order.
func BudgetOptions() []Budget { return slices.Clone(budgetOptions) }

// TimelineOptions lists the selectable timelines in display order.
func TimelineOptions() []Timeline { return slices.Clone(timelineOptions) }

func (n Need) Valid() bool     { return slices.Contains(needOptions, n) }
func (b Budget) Valid() bool   { return slices.Contains(budgetOptions, b) }
func (t Timeline) Valid() bool { return slices.Contains(timelineOptions, t) }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LeadForm accumulates the answers given across the wizard steps.
type LeadForm struct {
	FirstName   string   `json:"first_name"`
	Need        Need     `json:"need"`
	Description string   `json:"description"`
	Budget      Budget   `json:"budget"`
	Timeline    Timeline `json:"timeline"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func trimmedLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
