package authorization

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectCategory = "category"
	ObjectProduct  = "product"
	ObjectOrder    = "order"
	ObjectReminder = "reminder"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ActionOrderTopSellers = "order.top_sellers"
	ActionReminderForce   = "reminder.force"
)

const (
	RoleManager = "manager"
	RoleClient  = "client"
)

var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidActor = errors.New("invalid actor")
)

// Service answers whether an actor holding the given role may perform an
// action on an object.
type Service interface {
	Authorize(ctx context.Context, role string, object string, action string) error
	HasRole(ctx context.Context, role string, required string) bool
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{roleSubject(RoleManager), ObjectCategory, ActionCreate},
		{roleSubject(RoleManager), ObjectCategory, ActionUpdate},
		{roleSubject(RoleManager), ObjectCategory, ActionDelete},
		{roleSubject(RoleManager), ObjectProduct, ActionCreate},
		{roleSubject(RoleManager), ObjectProduct, ActionUpdate},
		{roleSubject(RoleManager), ObjectProduct, ActionDelete},
		{roleSubject(RoleManager), ObjectOrder, ActionView},
		{roleSubject(RoleManager), ObjectOrder, ActionOrderTopSellers},
		{roleSubject(RoleManager), ObjectReminder, ActionReminderForce},
		{roleSubject(RoleClient), ObjectOrder, ActionCreate},
	}
	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			return err
		}
	}
	return nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, role string, object string, action string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return ErrInvalidActor
	}

	allowed, err := s.enforcer.Enforce(roleSubject(role), object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("role", role),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) HasRole(ctx context.Context, role string, required string) bool {
	return strings.EqualFold(strings.TrimSpace(role), required)
}

func roleSubject(role string) string {
	return "role:" + strings.ToLower(role)
}

var Module = fx.Module("authorization",
	fx.Provide(NewEnforcer),
	fx.Provide(NewService),
)
