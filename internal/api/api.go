/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package api serves the billing service over HTTP with gin. Every response
// uses the envelope {success, data?, error?}.
package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suparena/tenantstore/errors"
	"github.com/suparena/tenantstore/internal/billing"
)

// TenantHeader overrides the subdomain as the tenant context.
const TenantHeader = "X-Tenant-ID"

const tenantKey = "tenant"

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, envelope{Error: msg})
}

// statusOf maps a service error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsAlreadyExists(err), errors.IsValidationError(err):
		return http.StatusBadRequest
	case errors.IsConditionFailed(err):
		return http.StatusConflict
	case errors.IsBackendUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	Service *billing.Service
	Logger  *slog.Logger
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger().Error("request failed", "path", c.FullPath(), "err", err)
	}
	fail(c, status, err.Error())
}

// Tenant returns the tenant context of the request, or "".
func Tenant(c *gin.Context) string {
	return c.GetString(tenantKey)
}

// tenantContext resolves the tenant from the X-Tenant-ID header or, failing
// that, from the left-most label of a host with at least three labels.
func tenantContext(c *gin.Context) {
	if id := strings.TrimSpace(c.GetHeader(TenantHeader)); id != "" {
		c.Set(tenantKey, id)
		c.Next()
		return
	}
	host := c.Request.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if net.ParseIP(host) == nil {
		if labels := strings.Split(host, "."); len(labels) >= 3 && labels[0] != "" {
			c.Set(tenantKey, strings.ToLower(labels[0]))
		}
	}
	c.Next()
}

func (h *Handler) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.logger().Debug("request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"tenant", Tenant(c),
		"duration", time.Since(start))
}

// NewRouter builds the gin engine. When reg is non-nil, HTTP request counts
// are registered with it and served, together with gatherer's metrics, on
// /metrics.
func NewRouter(h *Handler, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLog, tenantContext)

	if reg != nil {
		m, err := newRequestMetrics(reg)
		if err != nil {
			return nil, err
		}
		r.Use(m.observe)
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/healthz", func(c *gin.Context) { ok(c, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	api.POST("/tenants", h.RegisterTenant)
	api.POST("/auth/login", h.Login)
	api.GET("/dashboard/metrics", h.DashboardMetrics)

	api.GET("/customers", h.ListCustomers)
	api.POST("/customers", h.CreateCustomer)
	api.DELETE("/customers/:id", h.DeleteCustomer)

	api.GET("/plans", h.ListPlans)
	api.POST("/plans", h.CreatePlan)
	api.PUT("/plans/:id", h.UpdatePlan)
	api.DELETE("/plans/:id", h.DeletePlan)

	api.GET("/subscriptions", h.ListSubscriptions)
	api.POST("/subscriptions", h.CreateSubscription)
	api.POST("/subscriptions/:id/cancel", h.CancelSubscription)

	api.GET("/invoices", h.ListInvoices)
	api.POST("/invoices", h.CreateInvoice)
	api.PUT("/invoices/:id/status", h.UpdateInvoiceStatus)

	api.GET("/users", h.ListUsers)
	api.GET("/chats", h.ListChats)
	api.GET("/chats/:id/messages", h.ListMessages)
	api.POST("/chats/:id/messages", h.SendMessage)

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "route not found")
	})
	return r, nil
}
