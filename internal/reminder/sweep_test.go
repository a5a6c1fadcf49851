package reminder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/northmart/shopd/internal/clock"
	"github.com/northmart/shopd/internal/config"
	customerrepo "github.com/northmart/shopd/internal/customer/repository"
	orderrepo "github.com/northmart/shopd/internal/order/repository"
	"github.com/northmart/shopd/internal/providers/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// recordingProvider captures sent messages and can be told to fail from a
// given send onward.
type recordingProvider struct {
	sent    []email.Message
	failAt  int // 1-based index of the send that fails; 0 means never
	failErr error
}

func (p *recordingProvider) Send(ctx context.Context, msg email.Message) error {
	if p.failAt > 0 && len(p.sent)+1 >= p.failAt {
		return p.failErr
	}
	p.sent = append(p.sent, msg)
	return nil
}

type sweepFixture struct {
	sweeper  *Sweeper
	provider *recordingProvider
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	clientID int64
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE customers (
			id BIGINT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'client',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE orders (
			id BIGINT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			client_id BIGINT NOT NULL,
			shipment_address TEXT NOT NULL,
			payment_deadline TIMESTAMP NOT NULL,
			remainder_sent BOOLEAN NOT NULL DEFAULT 0,
			remainder_force BOOLEAN NOT NULL DEFAULT 0
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))
	provider := &recordingProvider{}

	clientID := node.Generate().Int64()
	require.NoError(t, db.Exec(
		`INSERT INTO customers (id, email, first_name, last_name, role, created_at)
		 VALUES (?, ?, 'Jo', 'Doe', 'client', ?)`,
		clientID, "jo@example.com", fake.Now(),
	).Error)

	sweeper := New(Params{
		DB:           db,
		Log:          zaptest.NewLogger(t),
		Clock:        fake,
		Repo:         orderrepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		Provider:     provider,
		Cfg:          config.NewStaticReminderHolder(config.DefaultReminderConfig()),
	})

	return &sweepFixture{
		sweeper:  sweeper,
		provider: provider,
		db:       db,
		node:     node,
		clock:    fake,
		clientID: clientID,
	}
}

func (f *sweepFixture) addOrder(t *testing.T, deadline time.Time, sent, force bool) int64 {
	t.Helper()
	id := f.node.Generate().Int64()
	require.NoError(t, f.db.Exec(
		`INSERT INTO orders (id, created_at, client_id, shipment_address, payment_deadline, remainder_sent, remainder_force)
		 VALUES (?, ?, ?, '1 Main St', ?, ?, ?)`,
		id, deadline.AddDate(0, 0, -5), f.clientID, deadline, sent, force,
	).Error)
	return id
}

func (f *sweepFixture) orderFlags(t *testing.T, id int64) (sent, force bool) {
	t.Helper()
	var row struct {
		RemainderSent  bool
		RemainderForce bool
	}
	require.NoError(t, f.db.Raw(
		`SELECT remainder_sent, remainder_force FROM orders WHERE id = ?`, id,
	).Scan(&row).Error)
	return row.RemainderSent, row.RemainderForce
}

func TestSweepNothingDue(t *testing.T) {
	f := newSweepFixture(t)
	// Deadline well past the notify window.
	f.addOrder(t, f.clock.Now().AddDate(0, 0, 10), false, false)

	summary, err := f.sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SummaryNoEmails, summary)
	assert.Empty(t, f.provider.sent)
}

func TestSweepSendsDueReminder(t *testing.T) {
	f := newSweepFixture(t)
	// Due tomorrow: inside the one-day lead.
	id := f.addOrder(t, f.clock.Now().AddDate(0, 0, 1), false, false)

	summary, err := f.sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1 reminder sent", summary)

	require.Len(t, f.provider.sent, 1)
	msg := f.provider.sent[0]
	assert.Equal(t, "jo@example.com", msg.To)
	assert.Equal(t, "Payment remainder", msg.Subject)
	assert.Contains(t, msg.Body, "Order created at: ")
	assert.Contains(t, msg.Body, "Payment deadline: 2024-01-11 12:00.")

	sent, force := f.orderFlags(t, id)
	assert.True(t, sent)
	assert.False(t, force)
}

func TestSweepIsIdempotent(t *testing.T) {
	f := newSweepFixture(t)
	f.addOrder(t, f.clock.Now().AddDate(0, 0, 1), false, false)

	_, err := f.sweeper.RunOnce(context.Background())
	require.NoError(t, err)

	summary, err := f.sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SummaryNoEmails, summary)
	assert.Len(t, f.provider.sent, 1)
}

func TestSweepForceOverridesDeadline(t *testing.T) {
	f := newSweepFixture(t)
	// Deadline far in the future, but the force flag is set.
	id := f.addOrder(t, f.clock.Now().AddDate(0, 0, 30), false, true)

	summary, err := f.sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1 reminder sent", summary)

	sent, force := f.orderFlags(t, id)
	assert.True(t, sent)
	assert.False(t, force, "force flag must be cleared after the send")
}

func TestSweepPluralSummary(t *testing.T) {
	f := newSweepFixture(t)
	f.addOrder(t, f.clock.Now().AddDate(0, 0, 1), false, false)
	f.addOrder(t, f.clock.Now().AddDate(0, 0, -2), false, false)
	f.addOrder(t, f.clock.Now(), false, false)

	summary, err := f.sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3 reminders sent", summary)
	assert.Len(t, f.provider.sent, 3)
}

func TestSweepAbortsBatchOnSendFailure(t *testing.T) {
	f := newSweepFixture(t)
	first := f.addOrder(t, f.clock.Now(), false, false)
	second := f.addOrder(t, f.clock.Now(), false, false)
	third := f.addOrder(t, f.clock.Now(), false, false)

	f.provider.failAt = 2
	f.provider.failErr = fmt.Errorf("%w: connection refused", email.ErrTransport)

	summary, err := f.sweeper.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, summary, "there was an error sending an email")

	// The first order was delivered and stays updated; the rest are untouched.
	sent, _ := f.orderFlags(t, first)
	assert.True(t, sent)
	for _, id := range []int64{second, third} {
		sent, _ := f.orderFlags(t, id)
		assert.False(t, sent)
	}

	// Next sweep only retries the undelivered orders.
	f.provider.failAt = 0
	summary, err = f.sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2 reminders sent", summary)
}

func TestSweepFailureSummaryWording(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want string
	}{
		{"malformed header", email.ErrMalformedHeader, "invalid header found"},
		{"transport", fmt.Errorf("%w: dial tcp", email.ErrTransport), "there was an error sending an email: smtp transport failure: dial tcp"},
		{"other", errors.New("boom"), "mail sending failed"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newSweepFixture(t)
			f.addOrder(t, f.clock.Now(), false, false)
			f.provider.failAt = 1
			f.provider.failErr = tc.err

			summary, err := f.sweeper.RunOnce(context.Background())
			require.Error(t, err)
			assert.Equal(t, tc.want, summary)
		})
	}
}

func TestSweepDateGranularCutoff(t *testing.T) {
	f := newSweepFixture(t)
	// Now is 2024-01-10 12:00. With a one-day lead, any deadline on or before
	// 2024-01-11 qualifies, even late that evening.
	dueLate := f.addOrder(t, time.Date(2024, 1, 11, 23, 0, 0, 0, time.UTC), false, false)
	notDue := f.addOrder(t, time.Date(2024, 1, 12, 0, 30, 0, 0, time.UTC), false, false)

	summary, err := f.sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1 reminder sent", summary)

	sent, _ := f.orderFlags(t, dueLate)
	assert.True(t, sent)
	sent, _ = f.orderFlags(t, notDue)
	assert.False(t, sent)
}
