package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/northmart/shopd/internal/authorization"
	"github.com/northmart/shopd/internal/catalog"
	catalogdomain "github.com/northmart/shopd/internal/catalog/domain"
	"github.com/northmart/shopd/internal/config"
	"github.com/northmart/shopd/internal/customer"
	customerdomain "github.com/northmart/shopd/internal/customer/domain"
	"github.com/northmart/shopd/internal/mailer"
	obsmetrics "github.com/northmart/shopd/internal/observability/metrics"
	"github.com/northmart/shopd/internal/order"
	orderdomain "github.com/northmart/shopd/internal/order/domain"
	"github.com/northmart/shopd/internal/providers/email"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	authorization.Module,
	email.Module,
	mailer.Module,
	customer.Module,
	catalog.Module,
	order.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	db           *gorm.DB
	catalogSvc   catalogdomain.Service
	orderSvc     orderdomain.Service
	customerRepo customerdomain.Repository
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	DB           *gorm.DB
	CatalogSvc   catalogdomain.Service
	OrderSvc     orderdomain.Service
	CustomerRepo customerdomain.Repository
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		db:           p.DB,
		catalogSvc:   p.CatalogSvc,
		orderSvc:     p.OrderSvc,
		customerRepo: p.CustomerRepo,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")
	api.Use(s.actorMiddleware())

	api.GET("/categories", s.ListCategories)
	api.GET("/categories/:id", s.GetCategory)
	api.POST("/categories", s.CreateCategory)
	api.PUT("/categories/:id", s.UpdateCategory)
	api.DELETE("/categories/:id", s.DeleteCategory)

	api.GET("/products", s.ListProducts)
	api.GET("/products/:id", s.GetProduct)
	api.POST("/products", s.CreateProduct)
	api.PUT("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/top-sellers", s.TopSellers)
	api.PATCH("/orders/force-remainder", s.ForceReminder)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	httpLog := log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		httpLog.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
