package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/northmart/shopd/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

func (s *Server) CreateProduct(c *gin.Context) {
	var req catalogdomain.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.catalogSvc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		Category string `form:"category"`
		PriceGTE string `form:"price_gte"`
		PriceLTE string `form:"price_lte"`
		Search   string `form:"search"`
		Ordering string `form:"ordering"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	filter := catalogdomain.ProductFilter{
		Search: strings.TrimSpace(query.Search),
	}

	if query.Category != "" {
		categoryID, err := strconv.ParseInt(query.Category, 10, 64)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		filter.CategoryID = categoryID
	}
	if query.PriceGTE != "" {
		min, err := decimal.NewFromString(query.PriceGTE)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		filter.PriceMin = &min
	}
	if query.PriceLTE != "" {
		max, err := decimal.NewFromString(query.PriceLTE)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		filter.PriceMax = &max
	}
	if ordering := strings.TrimSpace(query.Ordering); ordering != "" {
		filter.Descending = strings.HasPrefix(ordering, "-")
		filter.OrderBy = strings.TrimPrefix(ordering, "-")
	}

	resp, err := s.catalogSvc.ListProducts(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.catalogSvc.GetProduct(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var req catalogdomain.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.catalogSvc.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.catalogSvc.DeleteProduct(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
