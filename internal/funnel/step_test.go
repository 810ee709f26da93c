package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSteps_CoverEveryID(t *testing.T) {
	all := Steps()
	require.Len(t, all, TotalSteps)
	for i, s := range all {
		assert.Equal(t, StepID(i+1), s.ID)
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Fields)
	}

	_, ok := StepAt(0)
	assert.False(t, ok)
	_, ok = StepAt(StepContact + 1)
	assert.False(t, ok)
}

func TestStepPredicates(t *testing.T) {
	cases := []struct {
		step  StepID
		form  LeadForm
		valid bool
	}{
		{StepIdentity, LeadForm{FirstName: "A"}, false},
		{StepIdentity, LeadForm{FirstName: "Al"}, true},
		{StepIdentity, LeadForm{FirstName: " É "}, false},
		{StepIdentity, LeadForm{FirstName: "Éa"}, true},
		{StepNeed, LeadForm{}, false},
		{StepNeed, LeadForm{Need: "Website"}, false},
		{StepNeed, LeadForm{Need: NeedOther}, true},
		{StepDescription, LeadForm{Description: "123456789"}, false},
		{StepDescription, LeadForm{Description: "   123456789   "}, false},
		{StepDescription, LeadForm{Description: "1234567890"}, true},
		{StepBudget, LeadForm{}, false},
		{StepBudget, LeadForm{Budget: BudgetOver20k}, true},
		{StepTimeline, LeadForm{Timeline: "tomorrow"}, false},
		{StepTimeline, LeadForm{Timeline: TimelineASAP}, true},
		{StepContact, LeadForm{Email: "not-an-email"}, false},
		{StepContact, LeadForm{Email: "a b@c.de"}, false},
		{StepContact, LeadForm{Email: "a@bco"}, false},
		{StepContact, LeadForm{Email: "a@b.co"}, true},
		{StepContact, LeadForm{Email: "a@b.co", Phone: ""}, true},
	}
	for _, tc := range cases {
		s, ok := StepAt(tc.step)
		require.True(t, ok)
		assert.Equal(t, tc.valid, s.Valid(tc.form), "step=%s form=%+v", s.Name, tc.form)
	}
}

func TestValidateAll(t *testing.T) {
	var f LeadForm
	completeForm(&f)

	_, ok := ValidateAll(f)
	assert.True(t, ok)

	f.Budget = ""
	failed, ok := ValidateAll(f)
	assert.False(t, ok)
	assert.Equal(t, StepBudget, failed)
}

func TestOptions(t *testing.T) {
	assert.Len(t, NeedOptions(), 6)
	assert.Len(t, BudgetOptions(), 5)
	assert.Len(t, TimelineOptions(), 4)

	opts := NeedOptions()
	opts[0] = "mutated"
	assert.Equal(t, NeedAutomation, NeedOptions()[0])
}
