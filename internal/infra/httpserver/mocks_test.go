package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/app"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/notification"
	"github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/domain/subscription"
	idb "github.com/kenzuu-cmd/kenzuu-subscriptionsystem/internal/infra/database"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var serverNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type mockSubRepo struct {
	subs   []*subscription.Subscription
	nextID int64
	err    error
}

func (m *mockSubRepo) Create(_ context.Context, sub *subscription.Subscription) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	sub.ID = m.nextID
	m.subs = append(m.subs, sub)
	return nil
}

func (m *mockSubRepo) GetByID(_ context.Context, id int64) (*subscription.Subscription, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, sub := range m.subs {
		if sub.ID == id {
			return sub, nil
		}
	}
	return nil, idb.ErrSubscriptionNotFound
}

func (m *mockSubRepo) Update(_ context.Context, sub *subscription.Subscription) error {
	if m.err != nil {
		return m.err
	}
	for i, existing := range m.subs {
		if existing.ID == sub.ID {
			m.subs[i] = sub
			return nil
		}
	}
	return idb.ErrSubscriptionNotFound
}

func (m *mockSubRepo) Delete(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	for i, existing := range m.subs {
		if existing.ID == id {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			return nil
		}
	}
	return idb.ErrSubscriptionNotFound
}

func (m *mockSubRepo) List(_ context.Context) ([]*subscription.Subscription, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.subs, nil
}

type mockNotifRepo struct {
	items []*notification.Notification
	err   error
}

func (m *mockNotifRepo) ListRecentBySubscription(_ context.Context, subscriptionID int64, since time.Time) ([]*notification.Notification, error) {
	out := []*notification.Notification{}
	for _, n := range m.items {
		if n.SubscriptionID.Valid && n.SubscriptionID.Int64 == subscriptionID && n.CreatedAt.After(since) {
			out = append(out, n)
		}
	}
	return out, m.err
}

func (m *mockNotifRepo) BulkCreate(_ context.Context, notifications []*notification.Notification) error {
	m.items = append(m.items, notifications...)
	return m.err
}

func (m *mockNotifRepo) ListStale(_ context.Context, isRead bool, olderThan time.Time) ([]*notification.Notification, error) {
	out := []*notification.Notification{}
	for _, n := range m.items {
		if n.IsRead == isRead && n.CreatedAt.Before(olderThan) {
			out = append(out, n)
		}
	}
	return out, m.err
}

func (m *mockNotifRepo) DeleteBatch(_ context.Context, ids []int64) (int64, error) {
	deleted := int64(0)
	for _, id := range ids {
		if m.remove(id) {
			deleted++
		}
	}
	return deleted, m.err
}

func (m *mockNotifRepo) ListFeed(_ context.Context, readSince time.Time, limit int) ([]*notification.Notification, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*notification.Notification{}
	for _, n := range m.items {
		if !n.IsRead || n.CreatedAt.After(readSince) {
			out = append(out, n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockNotifRepo) GetByID(_ context.Context, id int64) (*notification.Notification, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, n := range m.items {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, idb.ErrNotificationNotFound
}

func (m *mockNotifRepo) MarkRead(_ context.Context, id int64, readAt time.Time) error {
	for _, n := range m.items {
		if n.ID == id && !n.IsRead {
			n.IsRead = true
			n.ReadAt.Time = readAt
			n.ReadAt.Valid = true
		}
	}
	return m.err
}

func (m *mockNotifRepo) MarkAllRead(_ context.Context, readAt time.Time) (int64, error) {
	updated := int64(0)
	for _, n := range m.items {
		if !n.IsRead {
			n.IsRead = true
			n.ReadAt.Time = readAt
			n.ReadAt.Valid = true
			updated++
		}
	}
	return updated, m.err
}

func (m *mockNotifRepo) Delete(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	if !m.remove(id) {
		return idb.ErrNotificationNotFound
	}
	return nil
}

func (m *mockNotifRepo) DeleteAll(_ context.Context) (int64, error) {
	deleted := int64(len(m.items))
	m.items = nil
	return deleted, m.err
}

func (m *mockNotifRepo) CountUnread(_ context.Context) (int64, error) {
	count := int64(0)
	for _, n := range m.items {
		if !n.IsRead {
			count++
		}
	}
	return count, m.err
}

func (m *mockNotifRepo) remove(id int64) bool {
	for i, n := range m.items {
		if n.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

type testEnv struct {
	server    *Server
	subRepo   *mockSubRepo
	notifRepo *mockNotifRepo
	probeUp   bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		subRepo:   &mockSubRepo{},
		notifRepo: &mockNotifRepo{},
		probeUp:   true,
	}

	clock := func() time.Time { return serverNow }
	log := logrus.New()
	log.SetOutput(io.Discard)

	env.server = NewServer(
		env.subRepo,
		env.notifRepo,
		app.NewReportService(env.subRepo, clock),
		NewSessionStore(12*time.Hour, clock),
		func(context.Context) bool { return env.probeUp },
		clock,
		log,
		"admin",
		"secret",
	)
	return env
}

// loggedInRequest issues a request carrying a fresh valid session cookie.
func (e *testEnv) loggedInRequest(t *testing.T, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	token, err := e.server.sessions.Create("admin")
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})

	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) request(t *testing.T, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func testSub(id int64, name, price string, cycle subscription.BillingCycle, daysAhead int) *subscription.Subscription {
	return &subscription.Subscription{
		ID:              id,
		ServiceName:     name,
		Price:           decimal.RequireFromString(price),
		BillingCycle:    cycle,
		NextPaymentDate: serverNow.AddDate(0, 0, daysAhead).Truncate(24 * time.Hour),
		Category:        "Entertainment",
	}
}
