package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type mockActivityCollection struct {
	mock.Mock
}

func (m *mockActivityCollection) InsertActivity(ctx context.Context, entry models.ActivityLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockActivityCollection) FindActivity(ctx context.Context, f db.ActivityFilter) ([]models.ActivityLog, int64, error) {
	args := m.Called(ctx, f)
	logs, _ := args.Get(0).([]models.ActivityLog)
	return logs, args.Get(1).(int64), args.Error(2)
}

func (m *mockActivityCollection) LastSessions(ctx context.Context) ([]db.SessionSummary, error) {
	args := m.Called(ctx)
	sessions, _ := args.Get(0).([]db.SessionSummary)
	return sessions, args.Error(1)
}

func at(h int) *time.Time {
	t := testNow.Add(time.Duration(h) * time.Hour)
	return &t
}

func TestRecord_StampsAndSwallowsErrors(t *testing.T) {
	logs := &mockActivityCollection{}
	log, hook := test.NewNullLogger()
	svc := NewService(logs, WithClock(func() time.Time { return testNow }), WithLogger(log))
	ctx := context.Background()

	logs.On("InsertActivity", ctx, models.ActivityLog{UserID: "u1", Action: models.ActivityLogin, CreatedAt: testNow}).Return(nil).Once()
	svc.Record(ctx, models.ActivityLog{UserID: "u1", Action: models.ActivityLogin})
	assert.Empty(t, hook.AllEntries())

	logs.On("InsertActivity", ctx, mock.Anything).Return(errors.New("connection reset")).Once()
	svc.Record(ctx, models.ActivityLog{UserID: "u1", Action: models.ActivityLogout})
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, models.ActivityLogout, hook.LastEntry().Data["action"])

	logs.AssertExpectations(t)
}

func TestList_ClampsPage(t *testing.T) {
	logs := &mockActivityCollection{}
	svc := NewService(logs)
	ctx := context.Background()
	entries := []models.ActivityLog{{UserID: "u1", Action: models.ActivityLogin}}

	logs.On("FindActivity", ctx, db.ActivityFilter{Action: "login", Limit: DefaultPageSize}).Return(entries, int64(7), nil).Once()
	logs.On("FindActivity", ctx, db.ActivityFilter{Skip: 0, Limit: MaxPageSize}).Return([]models.ActivityLog{}, int64(0), nil).Once()

	page, err := svc.List(ctx, db.ActivityFilter{Action: "login"})
	require.NoError(t, err)
	assert.EqualValues(t, 7, page.Total)
	assert.Equal(t, entries, page.Logs)

	_, err = svc.List(ctx, db.ActivityFilter{Skip: -4, Limit: 9000})
	require.NoError(t, err)
	logs.AssertExpectations(t)
}

func TestOnlineUsers(t *testing.T) {
	sessions := []db.SessionSummary{
		{UserID: "a", Username: "alice", LastLogin: at(-3)},
		{UserID: "b", Username: "bob", LastLogin: at(-2), LastLogout: at(-1)},
		{UserID: "c", Username: "carol", LastLogin: at(-1), LastLogout: at(-2)},
		{UserID: "d", Username: "dave", LastLogout: at(-1)},
		{UserID: "e", Username: "erin", LastLogin: at(-4), LastLogout: at(-4)},
	}

	got := OnlineUsers(sessions)
	require.Len(t, got, 2)
	assert.Equal(t, "carol", got[0].Username)
	assert.Equal(t, *at(-1), got[0].LastLogin)
	assert.Equal(t, "alice", got[1].Username)

	assert.Empty(t, OnlineUsers(nil))
}

func TestOnline(t *testing.T) {
	logs := &mockActivityCollection{}
	svc := NewService(logs)
	ctx := context.Background()

	logs.On("LastSessions", ctx).Return([]db.SessionSummary{{UserID: "a", Username: "alice", LastLogin: at(0)}}, nil).Once()
	users, err := svc.Online(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.OnlineUser{{UserID: "a", Username: "alice", LastLogin: *at(0)}}, users)

	logs.On("LastSessions", ctx).Return(nil, errors.New("boom")).Once()
	_, err = svc.Online(ctx)
	assert.Error(t, err)
}
