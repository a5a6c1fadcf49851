package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/northmart/shopd/internal/order/domain"
)

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListOrders(c *gin.Context) {
	resp, err := s.orderSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) TopSellers(c *gin.Context) {
	var query struct {
		ProductsMax string `form:"products_max"`
		DateMin     string `form:"date_min"`
		DateMax     string `form:"date_max"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if query.ProductsMax == "" || query.DateMin == "" || query.DateMax == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	productsMax, err := strconv.Atoi(query.ProductsMax)
	if err != nil {
		AbortWithError(c, orderdomain.ErrInvalidLimit)
		return
	}
	dateMin, err := parseDate(query.DateMin)
	if err != nil {
		AbortWithError(c, orderdomain.ErrInvalidRange)
		return
	}
	dateMax, err := parseDate(query.DateMax)
	if err != nil {
		AbortWithError(c, orderdomain.ErrInvalidRange)
		return
	}

	resp, err := s.orderSvc.TopSellers(c.Request.Context(), orderdomain.TopSellersRequest{
		ProductsMax: productsMax,
		DateMin:     dateMin,
		DateMax:     dateMax,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ForceReminder(c *gin.Context) {
	var req struct {
		OrderID *int64 `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// A missing order_id matches nothing; still a success, with an empty
	// result set. The role check applies either way.
	var orderID int64
	if req.OrderID != nil {
		orderID = *req.OrderID
	}

	resp, err := s.orderSvc.ForceReminder(c.Request.Context(), orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}
