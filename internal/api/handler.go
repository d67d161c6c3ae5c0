package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"stoktakip-service/internal/analytics"
	"stoktakip-service/internal/models"
	"stoktakip-service/internal/service"
	"stoktakip-service/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	resources *service.Resources
	sales     *service.SaleService
	ledger    *service.LedgerService
	repairs   *service.RepairService
	catalog   *service.CatalogService
	reports   *service.ReportService
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	resources *service.Resources,
	sales *service.SaleService,
	ledger *service.LedgerService,
	repairs *service.RepairService,
	catalog *service.CatalogService,
	reports *service.ReportService,
) *Handler {
	return &Handler{
		resources: resources,
		sales:     sales,
		ledger:    ledger,
		repairs:   repairs,
		catalog:   catalog,
		reports:   reports,
		logger:    util.GetLogger(),
	}
}

// SetupRoutes mounts the full route set under every prefix
func (h *Handler) SetupRoutes(router *gin.Engine, prefixes []string) {
	router.Use(gin.CustomRecovery(h.recoverPanic))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Accept"},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(prometheusMiddleware())
	router.Use(requestLogger(h.logger))

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if len(prefixes) == 0 {
		prefixes = []string{"/"}
	}
	for _, prefix := range prefixes {
		g := router.Group(prefix)
		if strings.Trim(prefix, "/") != "" {
			g.GET("/health", h.healthCheck)
		}
		h.mountResources(g)
	}
}

func (h *Handler) mountResources(g *gin.RouterGroup) {
	r := h.resources

	registerCRUD(g, "/categories", h, resourceCRUD(r.Categories))
	registerCRUD(g, "/products", h, resourceCRUD(r.Products))
	registerCRUD(g, "/repairs", h, resourceCRUD(r.Repairs))
	registerCRUD(g, "/phone-stock", h, resourceCRUD(r.PhoneStock))
	registerCRUD(g, "/phone-sales", h, resourceCRUD(r.PhoneSales))
	registerCRUD(g, "/expenses", h, resourceCRUD(r.Expenses))
	registerCRUD(g, "/customer-requests", h, resourceCRUD(r.CustomerRequests))

	registerCRUD(g, "/sales", h, crud[models.Sale, *models.Sale]{
		list:   h.sales.List,
		create: h.sales.Create,
		update: h.sales.Update,
		remove: h.sales.Delete,
	})
	registerCRUD(g, "/customers", h, crud[models.Customer, *models.Customer]{
		list:   r.Customers.List,
		create: h.ledger.CreateCustomer,
		update: h.ledger.UpdateCustomer,
		remove: r.Customers.Delete,
	})

	g.POST("/products/bulk", h.bulkCreateProducts)
	g.PUT("/repairs/:id/status", h.updateRepairStatus)

	g.GET("/customer-transactions", h.listTransactions)
	g.POST("/customer-transactions", h.postTransaction)
	g.DELETE("/customer-transactions/:id", h.deleteTransaction)

	g.GET("/reports/summary", h.reportSummary)
	g.GET("/reports/overview", h.reportOverview)
	g.GET("/reports/customers", h.reportCustomers)
	g.GET("/reports/low-stock", h.reportLowStock)

	g.GET("/activity", h.listActivity)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type bulkProductsRequest struct {
	Products []*models.Product `json:"products"`
}

func (h *Handler) bulkCreateProducts(c *gin.Context) {
	var req bulkProductsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	created, err := h.catalog.BulkCreate(c.Request.Context(), req.Products)
	if err != nil {
		h.logger.Error("Bulk product import failed", zap.Int("written", len(created)), zap.Error(err))
		c.JSON(statusFor(err), gin.H{
			"success": false,
			"error":   err.Error(),
			"data":    created,
			"count":   len(created),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    created,
		"count":   len(created),
	})
}

func (h *Handler) updateRepairStatus(c *gin.Context) {
	var req service.RepairStatusUpdate
	if !h.bindJSON(c, &req) {
		return
	}

	repair, err := h.repairs.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, repair)
}

func (h *Handler) listTransactions(c *gin.Context) {
	txs, err := h.ledger.ListTransactions(c.Request.Context(), c.Query("customerId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, txs)
}

func (h *Handler) postTransaction(c *gin.Context) {
	var tx models.CustomerTransaction
	if !h.bindJSON(c, &tx) {
		return
	}

	posted, err := h.ledger.PostTransaction(c.Request.Context(), &tx)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, posted)
}

func (h *Handler) deleteTransaction(c *gin.Context) {
	if err := h.ledger.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) reportSummary(c *gin.Context) {
	summary, err := h.reports.Summary(c.Request.Context(), c.DefaultQuery("period", analytics.PeriodAll))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, summary)
}

func (h *Handler) reportOverview(c *gin.Context) {
	rng, err := analytics.ParseDateRange(c.Query("startDate"), c.Query("endDate"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	report, err := h.reports.Overview(c.Request.Context(), rng)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, report)
}

func (h *Handler) reportCustomers(c *gin.Context) {
	stats, err := h.reports.Customers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, stats)
}

func (h *Handler) reportLowStock(c *gin.Context) {
	products, err := h.reports.LowStock(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, products)
}

// listActivity returns the newest entries first; ?limit caps the count
func (h *Handler) listActivity(c *gin.Context) {
	entries, err := h.resources.Activity.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit >= 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	ok(c, http.StatusOK, entries)
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// fail maps service errors onto 404/400 and everything else onto 500
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// recoverPanic answers a panicking handler with the usual error envelope
func (h *Handler) recoverPanic(c *gin.Context, recovered interface{}) {
	h.fail(c, fmt.Errorf("internal error: %v", recovered))
	c.Abort()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return false
	}
	return true
}
