package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/northmart/shopd/internal/actorctx"
	"github.com/northmart/shopd/internal/authorization"
	"github.com/northmart/shopd/internal/catalog/domain"
	"github.com/northmart/shopd/internal/clock"
	"github.com/northmart/shopd/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	SalesChecker domain.SalesChecker
	AuthzSvc     authorization.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	salesChecker domain.SalesChecker
	authzSvc     authorization.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("catalog.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		salesChecker: p.SalesChecker,
		authzSvc:     p.AuthzSvc,
	}
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CategoryRequest) (*domain.CategoryResponse, error) {
	if err := s.authorize(ctx, authorization.ObjectCategory, authorization.ActionCreate); err != nil {
		return nil, err
	}

	name, err := categoryName(req.Name)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	category := &domain.Category{
		ID:        s.genID.Generate().Int64(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateCategory(ctx, s.db, category); err != nil {
		return nil, err
	}
	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *Service) ListCategories(ctx context.Context, search string) ([]domain.CategoryResponse, error) {
	items, err := s.repo.ListCategories(ctx, s.db, search)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.CategoryResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toCategoryResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*domain.CategoryResponse, error) {
	category, err := s.repo.FindCategoryByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, req domain.CategoryRequest) (*domain.CategoryResponse, error) {
	if err := s.authorize(ctx, authorization.ObjectCategory, authorization.ActionUpdate); err != nil {
		return nil, err
	}

	category, err := s.repo.FindCategoryByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	name, err := categoryName(req.Name)
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateCategory(ctx, s.db, category); err != nil {
		return nil, err
	}
	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.authorize(ctx, authorization.ObjectCategory, authorization.ActionDelete); err != nil {
		return err
	}

	category, err := s.repo.FindCategoryByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}

	count, err := s.repo.CountProductsInCategory(ctx, s.db, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryInUse
	}

	if err := s.repo.DeleteCategory(ctx, s.db, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return err
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductRequest) (*domain.ProductResponse, error) {
	if err := s.authorize(ctx, authorization.ObjectProduct, authorization.ActionCreate); err != nil {
		return nil, err
	}
	if err := s.validateProduct(ctx, req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	product := &domain.Product{
		ID:          s.genID.Generate().Int64(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price.Round(2),
		CategoryID:  req.CategoryID,
		PhotoURL:    strings.TrimSpace(req.PhotoURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateProduct(ctx, s.db, product); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, domain.ErrInvalidCategory
		}
		return nil, err
	}
	return s.productResponse(ctx, product)
}

func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductResponse, error) {
	items, err := s.repo.ListProducts(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.ProductResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toProductResponse(&items[i], ""))
	}
	return resp, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.ProductResponse, error) {
	product, err := s.repo.FindProductByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return s.productResponse(ctx, product)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, req domain.ProductRequest) (*domain.ProductResponse, error) {
	if err := s.authorize(ctx, authorization.ObjectProduct, authorization.ActionUpdate); err != nil {
		return nil, err
	}

	product, err := s.repo.FindProductByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.validateProduct(ctx, req); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Description = strings.TrimSpace(req.Description)
	product.Price = req.Price.Round(2)
	product.CategoryID = req.CategoryID
	product.PhotoURL = strings.TrimSpace(req.PhotoURL)
	product.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateProduct(ctx, s.db, product); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, domain.ErrInvalidCategory
		}
		return nil, err
	}
	return s.productResponse(ctx, product)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.authorize(ctx, authorization.ObjectProduct, authorization.ActionDelete); err != nil {
		return err
	}

	product, err := s.repo.FindProductByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	sold, err := s.salesChecker.ProductHasSales(ctx, s.db, id)
	if err != nil {
		return err
	}
	if sold {
		return domain.ErrProductSold
	}

	if err := s.repo.DeleteProduct(ctx, s.db, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return domain.ErrProductSold
		}
		return err
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, object, action string) error {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return authorization.ErrForbidden
	}
	return s.authzSvc.Authorize(ctx, actor.Role, object, action)
}

func (s *Service) validateProduct(ctx context.Context, req domain.ProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ErrInvalidName
	}
	if len(name) > domain.ProductNameMaxLen {
		return domain.ErrNameTooLong
	}
	if req.Price.IsNegative() {
		return domain.ErrInvalidPrice
	}
	if req.CategoryID == 0 {
		return domain.ErrInvalidCategory
	}
	category, err := s.repo.FindCategoryByID(ctx, s.db, req.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrInvalidCategory
	}
	return nil
}

func (s *Service) productResponse(ctx context.Context, product *domain.Product) (*domain.ProductResponse, error) {
	categoryName := ""
	if category, err := s.repo.FindCategoryByID(ctx, s.db, product.CategoryID); err == nil && category != nil {
		categoryName = category.Name
	}
	resp := toProductResponse(product, categoryName)
	return &resp, nil
}

func categoryName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domain.ErrInvalidName
	}
	if len(name) > domain.CategoryNameMaxLen {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

func toCategoryResponse(c *domain.Category) domain.CategoryResponse {
	return domain.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toProductResponse(p *domain.Product, categoryName string) domain.ProductResponse {
	return domain.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		CategoryID:   p.CategoryID,
		CategoryName: categoryName,
		PhotoURL:     p.PhotoURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
