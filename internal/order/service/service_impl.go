package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/northmart/shopd/internal/actorctx"
	"github.com/northmart/shopd/internal/authorization"
	catalogdomain "github.com/northmart/shopd/internal/catalog/domain"
	"github.com/northmart/shopd/internal/clock"
	"github.com/northmart/shopd/internal/config"
	customerdomain "github.com/northmart/shopd/internal/customer/domain"
	"github.com/northmart/shopd/internal/mailer"
	"github.com/northmart/shopd/internal/order/domain"
	"github.com/northmart/shopd/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const timestampLayout = "2006-01-02 15:04"

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	CatalogRepo  catalogdomain.Repository
	CustomerRepo customerdomain.Repository
	AuthzSvc     authorization.Service
	Mailer       *mailer.Dispatcher
	ReminderCfg  *config.ReminderConfigHolder
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	catalogRepo  catalogdomain.Repository
	customerRepo customerdomain.Repository
	authzSvc     authorization.Service
	mailer       *mailer.Dispatcher
	reminderCfg  *config.ReminderConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("order.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		catalogRepo:  p.CatalogRepo,
		customerRepo: p.CustomerRepo,
		authzSvc:     p.AuthzSvc,
		mailer:       p.Mailer,
		reminderCfg:  p.ReminderCfg,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return nil, authorization.ErrForbidden
	}
	if err := s.authzSvc.Authorize(ctx, actor.Role, authorization.ObjectOrder, authorization.ActionCreate); err != nil {
		return nil, err
	}

	address := strings.TrimSpace(req.ShipmentAddress)
	if address == "" {
		return nil, domain.ErrInvalidAddress
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	productIDs := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.catalogRepo.FindProductsByIDs(ctx, s.db, productIDs)
	if err != nil {
		return nil, err
	}
	priceByID := make(map[int64]catalogdomain.Product, len(products))
	for _, p := range products {
		priceByID[p.ID] = p
	}

	now := s.clock.Now()
	order := &domain.Order{
		ID:              s.genID.Generate().Int64(),
		CreatedAt:       now,
		ClientID:        actor.ID,
		ShipmentAddress: address,
		PaymentDeadline: now.Add(s.reminderCfg.Get().DeadlineOffset()),
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, ok := priceByID[item.ProductID]
		if !ok {
			return nil, domain.ErrUnknownProduct
		}
		items = append(items, domain.OrderItem{
			ID:           s.genID.Generate().Int64(),
			OrderID:      order.ID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			ProductPrice: product.Price,
		})
	}

	if err := s.repo.CreateOrder(ctx, s.db, order, items); err != nil {
		return nil, err
	}

	// Confirmation is fire-and-forget: delivery outcome never affects the
	// creation result.
	s.mailer.Enqueue(email.Message{
		To:      actor.Email,
		Subject: "Order confirmation",
		Body:    fmt.Sprintf("Order created at: %s", order.CreatedAt.Format(timestampLayout)),
	})

	resp := toResponse(order, items, actor.Email, actor.FirstName, actor.LastName)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Response, error) {
	if err := s.authorize(ctx, authorization.ObjectOrder, authorization.ActionView); err != nil {
		return nil, err
	}

	order, err := s.repo.FindOrderByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	items, err := s.repo.FindItems(ctx, s.db, order.ID)
	if err != nil {
		return nil, err
	}

	resp := s.withClient(ctx, order, items)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	if err := s.authorize(ctx, authorization.ObjectOrder, authorization.ActionView); err != nil {
		return nil, err
	}

	orders, err := s.repo.ListOrders(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(orders))
	for i := range orders {
		items, err := s.repo.FindItems(ctx, s.db, orders[i].ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, s.withClient(ctx, &orders[i], items))
	}
	return resp, nil
}

// ForceReminder flags an order for the next sweep. An unknown id matches zero
// rows and reports success with an empty result.
func (s *Service) ForceReminder(ctx context.Context, orderID int64) ([]domain.ForceReminderResponse, error) {
	if err := s.authorize(ctx, authorization.ObjectReminder, authorization.ActionReminderForce); err != nil {
		return nil, err
	}

	affected, err := s.repo.SetReminderForce(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return []domain.ForceReminderResponse{}, nil
	}
	return []domain.ForceReminderResponse{
		{ID: orderID, RemainderForce: true},
	}, nil
}

func (s *Service) TopSellers(ctx context.Context, req domain.TopSellersRequest) ([]domain.TopSeller, error) {
	if err := s.authorize(ctx, authorization.ObjectOrder, authorization.ActionOrderTopSellers); err != nil {
		return nil, err
	}

	if req.ProductsMax <= 0 {
		return nil, domain.ErrInvalidLimit
	}
	if req.DateMin.IsZero() || req.DateMax.IsZero() || req.DateMax.Before(req.DateMin) {
		return nil, domain.ErrInvalidRange
	}

	// The range is date-granular and inclusive on both ends.
	min := startOfDay(req.DateMin)
	max := startOfDay(req.DateMax).Add(24 * time.Hour)

	return s.repo.TopSellers(ctx, s.db, req.ProductsMax, min, max)
}

func (s *Service) authorize(ctx context.Context, object, action string) error {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return authorization.ErrForbidden
	}
	return s.authzSvc.Authorize(ctx, actor.Role, object, action)
}

func (s *Service) withClient(ctx context.Context, order *domain.Order, items []domain.OrderItem) domain.Response {
	email, first, last := "", "", ""
	if client, err := s.customerRepo.FindByID(ctx, s.db, order.ClientID); err == nil && client != nil {
		email, first, last = client.Email, client.FirstName, client.LastName
	}
	return toResponse(order, items, email, first, last)
}

func toResponse(order *domain.Order, items []domain.OrderItem, email, firstName, lastName string) domain.Response {
	itemResp := make([]domain.ItemResponse, 0, len(items))
	for _, item := range items {
		itemResp = append(itemResp, domain.ItemResponse{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			ProductPrice: item.ProductPrice,
		})
	}
	return domain.Response{
		ID:              order.ID,
		CreatedAt:       order.CreatedAt,
		ClientEmail:     email,
		ClientFirstName: firstName,
		ClientLastName:  lastName,
		ShipmentAddress: order.ShipmentAddress,
		PaymentDeadline: order.PaymentDeadline,
		OrderTotal:      domain.Total(items),
		Items:           itemResp,
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
