package contact

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"diezagency/internal/database"
	"diezagency/internal/funnel"
	"diezagency/internal/locale"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) LeadCreated(ctx context.Context, c *Contact) {
	m.Called(ctx, c)
}

func (m *MockNotifier) StatusChanged(ctx context.Context, c *Contact) {
	m.Called(ctx, c)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect(dsn, zap.NewNop(), true)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &Contact{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func testLead(submissionID string) funnel.Lead {
	return funnel.Lead{
		LeadForm: funnel.LeadForm{
			FirstName:   "  Alice ",
			Need:        funnel.NeedWebsite,
			Description: "A brand new showcase website",
			Budget:      funnel.Budget5kTo10k,
			Timeline:    funnel.TimelineWithin3Months,
			Email:       "alice@example.com",
		},
		Lang:         locale.French,
		SubmissionID: submissionID,
	}
}

func newTestService(t *testing.T) (*Service, *MockNotifier) {
	t.Helper()
	n := &MockNotifier{}
	return NewService(NewRepository(setupTestDB(t)), n, zap.NewNop()), n
}

func TestService_Submit(t *testing.T) {
	svc, n := newTestService(t)
	n.On("LeadCreated", mock.Anything, mock.AnythingOfType("*contact.Contact")).Return().Once()

	ctx := WithRequestMeta(context.Background(), RequestMeta{IP: "203.0.113.7", UserAgent: "test-agent"})
	c, created, err := svc.Submit(ctx, testLead("sub-1"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "Alice", c.FirstName)
	assert.Equal(t, StatusNew, c.Status)
	assert.Equal(t, "203.0.113.7", c.IPAddress)
	assert.Equal(t, "test-agent", c.UserAgent)

	stored, err := svc.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", stored.SubmissionID)
	assert.Equal(t, locale.French, stored.Lang)
	n.AssertExpectations(t)
}

func TestService_Submit_DuplicateIsIdempotent(t *testing.T) {
	svc, n := newTestService(t)
	n.On("LeadCreated", mock.Anything, mock.Anything).Return().Once()

	first, created, err := svc.Submit(context.Background(), testLead("retry-me"))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Submit(context.Background(), testLead("retry-me"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, total, err := svc.List(context.Background(), nil, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	n.AssertNumberOfCalls(t, "LeadCreated", 1)
}

func TestService_WriteLead(t *testing.T) {
	svc, n := newTestService(t)
	n.On("LeadCreated", mock.Anything, mock.Anything).Return()

	require.NoError(t, svc.WriteLead(context.Background(), testLead("w-1")))
	require.NoError(t, svc.WriteLead(context.Background(), testLead("w-1")))
	n.AssertNumberOfCalls(t, "LeadCreated", 1)
}

func TestService_Submit_RejectsIncompleteLead(t *testing.T) {
	svc, n := newTestService(t)

	lead := testLead("bad")
	lead.Budget = "free"
	_, _, err := svc.Submit(context.Background(), lead)
	require.ErrorIs(t, err, ErrInvalidLead)
	assert.Contains(t, err.Error(), "budget")
	n.AssertNotCalled(t, "LeadCreated", mock.Anything, mock.Anything)
}

func TestService_Submit_Defaults(t *testing.T) {
	svc, n := newTestService(t)
	n.On("LeadCreated", mock.Anything, mock.Anything).Return()

	lead := testLead("")
	lead.Lang = "de"
	c, created, err := svc.Submit(context.Background(), lead)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, locale.Secondary, c.Lang)
	_, err = uuid.Parse(c.SubmissionID)
	assert.NoError(t, err)
}

func TestService_ListAndStatus(t *testing.T) {
	svc, n := newTestService(t)
	n.On("LeadCreated", mock.Anything, mock.Anything).Return()
	n.On("StatusChanged", mock.Anything, mock.Anything).Return()
	ctx := context.Background()

	var ids []int64
	for i := range 3 {
		c, _, err := svc.Submit(ctx, testLead(fmt.Sprintf("sub-%d", i)))
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	updated, err := svc.UpdateStatus(ctx, ids[0], StatusReplied)
	require.NoError(t, err)
	assert.Equal(t, StatusReplied, updated.Status)

	replied := StatusReplied
	list, total, err := svc.List(ctx, &replied, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, ids[0], list[0].ID)

	page, total, err := svc.List(ctx, nil, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 2)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[Status]int64{StatusNew: 2, StatusRead: 0, StatusReplied: 1}, stats)

	bogus := Status("archived")
	_, _, err = svc.List(ctx, &bogus, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, ids[1], bogus)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, 9999, StatusRead)
	assert.ErrorIs(t, err, ErrContactNotFound)
	n.AssertNumberOfCalls(t, "StatusChanged", 1)
}

func TestService_Delete(t *testing.T) {
	svc, n := newTestService(t)
	n.On("LeadCreated", mock.Anything, mock.Anything).Return()
	ctx := context.Background()

	c, _, err := svc.Submit(ctx, testLead("del"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), ErrContactNotFound)
}

func TestService_Prune(t *testing.T) {
	db := setupTestDB(t)
	n := &MockNotifier{}
	n.On("LeadCreated", mock.Anything, mock.Anything).Return()
	n.On("StatusChanged", mock.Anything, mock.Anything).Return()
	svc := NewService(NewRepository(db), n, zap.NewNop())
	ctx := context.Background()

	oldReplied, _, err := svc.Submit(ctx, testLead("old-replied"))
	require.NoError(t, err)
	oldNew, _, err := svc.Submit(ctx, testLead("old-new"))
	require.NoError(t, err)
	recent, _, err := svc.Submit(ctx, testLead("recent"))
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&Contact{}).Where("id IN ?", []int64{oldReplied.ID, oldNew.ID}).Update("created_at", past).Error)
	_, err = svc.UpdateStatus(ctx, oldReplied.ID, StatusReplied)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, recent.ID, StatusReplied)
	require.NoError(t, err)

	pruned, err := svc.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)

	_, err = svc.GetByID(ctx, oldReplied.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)
	_, err = svc.GetByID(ctx, oldNew.ID)
	assert.NoError(t, err)
	_, err = svc.GetByID(ctx, recent.ID)
	assert.NoError(t, err)
}

func TestTruncate_KeepsValidUTF8(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 512, "short"},
		{strings.Repeat("a", 511) + "é", 512, strings.Repeat("a", 511)},
		{"éé", 3, "é"},
		{"ab\xffcd", 3, "abc"},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.n)
		assert.Equal(t, tc.want, got)
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), tc.n)
	}
}
