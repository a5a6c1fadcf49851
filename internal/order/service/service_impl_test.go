package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/northmart/shopd/internal/actorctx"
	"github.com/northmart/shopd/internal/authorization"
	catalogrepo "github.com/northmart/shopd/internal/catalog/repository"
	"github.com/northmart/shopd/internal/clock"
	"github.com/northmart/shopd/internal/config"
	customerrepo "github.com/northmart/shopd/internal/customer/repository"
	"github.com/northmart/shopd/internal/mailer"
	"github.com/northmart/shopd/internal/order/domain"
	"github.com/northmart/shopd/internal/order/repository"
	"github.com/northmart/shopd/internal/providers/email"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE categories (
			id BIGINT PRIMARY KEY,
			name VARCHAR(30) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE products (
			id BIGINT PRIMARY KEY,
			name VARCHAR(45) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(9,2) NOT NULL,
			category_id BIGINT NOT NULL,
			photo_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
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
		`CREATE TABLE order_items (
			id BIGINT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			quantity INTEGER NOT NULL,
			product_price NUMERIC(9,2) NOT NULL
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

type fixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	mailer   *mailer.Dispatcher
	clientID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupDB(t)
	log := zaptest.NewLogger(t)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	enforcer, err := authorization.NewEnforcer(db)
	require.NoError(t, err)
	authzSvc := authorization.NewService(authorization.Params{Log: log, Enforcer: enforcer})

	fake := clock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	dispatcher := mailer.New(&email.NoOpProvider{}, log)

	clientID := node.Generate().Int64()
	require.NoError(t, db.Exec(
		`INSERT INTO customers (id, email, first_name, last_name, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		clientID, "jo@example.com", "Jo", "Doe", "client", fake.Now(),
	).Error)

	svc := New(Params{
		DB:           db,
		Log:          log,
		GenID:        node,
		Clock:        fake,
		Repo:         repository.Provide(),
		CatalogRepo:  catalogrepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		AuthzSvc:     authzSvc,
		Mailer:       dispatcher,
		ReminderCfg:  config.NewStaticReminderHolder(config.DefaultReminderConfig()),
	})

	return &fixture{
		svc:      svc,
		db:       db,
		node:     node,
		clock:    fake,
		mailer:   dispatcher,
		clientID: clientID,
	}
}

func (f *fixture) addProduct(t *testing.T, name, price string) int64 {
	t.Helper()
	categoryID := f.node.Generate().Int64()
	require.NoError(t, f.db.Exec(
		`INSERT INTO categories (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		categoryID, "misc", f.clock.Now(), f.clock.Now(),
	).Error)

	productID := f.node.Generate().Int64()
	require.NoError(t, f.db.Exec(
		`INSERT INTO products (id, name, description, price, category_id, photo_url, created_at, updated_at)
		 VALUES (?, ?, '', ?, ?, '', ?, ?)`,
		productID, name, price, categoryID, f.clock.Now(), f.clock.Now(),
	).Error)
	return productID
}

func (f *fixture) clientCtx() context.Context {
	return actorctx.WithActor(context.Background(), actorctx.Actor{
		ID:        f.clientID,
		Email:     "jo@example.com",
		FirstName: "Jo",
		LastName:  "Doe",
		Role:      "client",
	})
}

func (f *fixture) managerCtx() context.Context {
	return actorctx.WithActor(context.Background(), actorctx.Actor{
		ID:    f.clientID,
		Email: "jo@example.com",
		Role:  "manager",
	})
}

func TestCreateOrderComputesDeadlineAndTotal(t *testing.T) {
	f := newFixture(t)
	productA := f.addProduct(t, "widget", "10.00")
	productB := f.addProduct(t, "gadget", "5.00")

	resp, err := f.svc.Create(f.clientCtx(), domain.CreateRequest{
		ShipmentAddress: "1 Main St",
		Items: []domain.ItemRequest{
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), resp.CreatedAt)
	assert.Equal(t, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), resp.PaymentDeadline)
	assert.True(t, resp.OrderTotal.Equal(decimal.RequireFromString("25.00")),
		"expected total 25.00, got %s", resp.OrderTotal)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "jo@example.com", resp.ClientEmail)
}

func TestCreateOrderSnapshotsPrice(t *testing.T) {
	f := newFixture(t)
	productID := f.addProduct(t, "widget", "10.00")

	resp, err := f.svc.Create(f.clientCtx(), domain.CreateRequest{
		ShipmentAddress: "1 Main St",
		Items:           []domain.ItemRequest{{ProductID: productID, Quantity: 3}},
	})
	require.NoError(t, err)

	// Raising the catalog price must not touch the existing order.
	require.NoError(t, f.db.Exec(`UPDATE products SET price = ? WHERE id = ?`, "99.99", productID).Error)

	got, err := f.svc.Get(f.managerCtx(), resp.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].ProductPrice.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, got.OrderTotal.Equal(decimal.RequireFromString("30.00")))
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	productID := f.addProduct(t, "widget", "10.00")

	_, err := f.svc.Create(f.clientCtx(), domain.CreateRequest{
		ShipmentAddress: "1 Main St",
	})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)

	_, err = f.svc.Create(f.clientCtx(), domain.CreateRequest{
		ShipmentAddress: "1 Main St",
		Items:           []domain.ItemRequest{{ProductID: productID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.Create(f.clientCtx(), domain.CreateRequest{
		ShipmentAddress: "1 Main St",
		Items:           []domain.ItemRequest{{ProductID: 42, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	_, err = f.svc.Create(f.clientCtx(), domain.CreateRequest{
		ShipmentAddress: "  ",
		Items:           []domain.ItemRequest{{ProductID: productID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestCreateOrderRequiresClientRole(t *testing.T) {
	f := newFixture(t)
	productID := f.addProduct(t, "widget", "10.00")

	_, err := f.svc.Create(f.managerCtx(), domain.CreateRequest{
		ShipmentAddress: "1 Main St",
		Items:           []domain.ItemRequest{{ProductID: productID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, authorization.ErrForbidden)

	_, err = f.svc.Create(context.Background(), domain.CreateRequest{
		ShipmentAddress: "1 Main St",
		Items:           []domain.ItemRequest{{ProductID: productID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}

func TestForceReminder(t *testing.T) {
	f := newFixture(t)
	productID := f.addProduct(t, "widget", "10.00")

	resp, err := f.svc.Create(f.clientCtx(), domain.CreateRequest{
		ShipmentAddress: "1 Main St",
		Items:           []domain.ItemRequest{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)

	result, err := f.svc.ForceReminder(f.managerCtx(), resp.ID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].RemainderForce)

	var force bool
	require.NoError(t, f.db.Raw(`SELECT remainder_force FROM orders WHERE id = ?`, resp.ID).Scan(&force).Error)
	assert.True(t, force)
}

func TestForceReminderUnknownIDIsNoOp(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.ForceReminder(f.managerCtx(), 123456)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestForceReminderRequiresManager(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ForceReminder(f.clientCtx(), 1)
	assert.ErrorIs(t, err, authorization.ErrForbidden)
}

func TestTopSellers(t *testing.T) {
	f := newFixture(t)
	productA := f.addProduct(t, "widget", "10.00")
	productB := f.addProduct(t, "gadget", "5.00")

	_, err := f.svc.Create(f.clientCtx(), domain.CreateRequest{
		ShipmentAddress: "1 Main St",
		Items: []domain.ItemRequest{
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 7},
		},
	})
	require.NoError(t, err)

	result, err := f.svc.TopSellers(f.managerCtx(), domain.TopSellersRequest{
		ProductsMax: 1,
		DateMin:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DateMax:     time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, productB, result[0].ProductID)
	assert.Equal(t, int64(7), result[0].Sold)
}

func TestTopSellersValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.TopSellers(f.managerCtx(), domain.TopSellersRequest{
		ProductsMax: 0,
		DateMin:     time.Now(),
		DateMax:     time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)

	_, err = f.svc.TopSellers(f.managerCtx(), domain.TopSellersRequest{
		ProductsMax: 5,
		DateMin:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		DateMax:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}
