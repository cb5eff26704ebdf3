/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suparena/tenantstore/internal/billing"
	models "github.com/suparena/tenantstore/storagemodels"
)

// bind decodes the JSON body into v, answering 400 on failure.
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

type deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *Handler) deleteResult(c *gin.Context, found bool, err error, what string) {
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		fail(c, http.StatusNotFound, what+" not found")
		return
	}
	ok(c, deleted{ID: c.Param("id"), Deleted: true})
}

// Tenants

func (h *Handler) RegisterTenant(c *gin.Context) {
	var req billing.Registration
	if !bind(c, &req) {
		return
	}
	t, err := h.Service.RegisterTenant(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, gin.H{"id": t.ID, "name": t.Name})
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bind(c, &req) {
		return
	}
	t, err := h.Service.Login(c.Request.Context(), Tenant(c), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, gin.H{"name": t.Name, "subdomain": t.ID})
}

func (h *Handler) DashboardMetrics(c *gin.Context) {
	m, err := h.Service.DashboardMetrics(c.Request.Context(), Tenant(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, m)
}

// Customers

func (h *Handler) ListCustomers(c *gin.Context) {
	list, err := h.Service.ListCustomers(c.Request.Context(), Tenant(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req models.Customer
	if !bind(c, &req) {
		return
	}
	created, err := h.Service.CreateCustomer(c.Request.Context(), Tenant(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, created)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	found, err := h.Service.DeleteCustomer(c.Request.Context(), Tenant(c), c.Param("id"))
	h.deleteResult(c, found, err, "customer")
}

// Plans

func (h *Handler) ListPlans(c *gin.Context) {
	list, err := h.Service.ListPlans(c.Request.Context(), Tenant(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var req models.Plan
	if !bind(c, &req) {
		return
	}
	created, err := h.Service.CreatePlan(c.Request.Context(), Tenant(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, created)
}

func (h *Handler) UpdatePlan(c *gin.Context) {
	var patch models.PlanPatch
	if !bind(c, &patch) {
		return
	}
	updated, err := h.Service.UpdatePlan(c.Request.Context(), Tenant(c), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, updated)
}

func (h *Handler) DeletePlan(c *gin.Context) {
	found, err := h.Service.DeletePlan(c.Request.Context(), Tenant(c), c.Param("id"))
	h.deleteResult(c, found, err, "plan")
}

// Subscriptions

func (h *Handler) ListSubscriptions(c *gin.Context) {
	list, err := h.Service.ListSubscriptions(c.Request.Context(), Tenant(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) CreateSubscription(c *gin.Context) {
	var req models.Subscription
	if !bind(c, &req) {
		return
	}
	created, err := h.Service.CreateSubscription(c.Request.Context(), Tenant(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, created)
}

func (h *Handler) CancelSubscription(c *gin.Context) {
	sub, err := h.Service.CancelSubscription(c.Request.Context(), Tenant(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, sub)
}

// Invoices

func (h *Handler) ListInvoices(c *gin.Context) {
	list, err := h.Service.ListInvoices(c.Request.Context(), Tenant(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	var req models.Invoice
	if !bind(c, &req) {
		return
	}
	created, err := h.Service.CreateInvoice(c.Request.Context(), Tenant(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, created)
}

func (h *Handler) UpdateInvoiceStatus(c *gin.Context) {
	var req struct {
		Status models.InvoiceStatus `json:"status"`
	}
	if !bind(c, &req) {
		return
	}
	inv, err := h.Service.UpdateInvoiceStatus(c.Request.Context(), Tenant(c), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, inv)
}

// Demo collections

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Service.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, users)
}

func (h *Handler) ListChats(c *gin.Context) {
	chats, err := h.Service.ListChats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, chats)
}

func (h *Handler) ListMessages(c *gin.Context) {
	msgs, err := h.Service.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, msgs)
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
		Text   string `json:"text"`
	}
	if !bind(c, &req) {
		return
	}
	msg, err := h.Service.SendMessage(c.Request.Context(), c.Param("id"), req.UserID, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, msg)
}
