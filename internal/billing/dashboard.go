/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package billing

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	models "github.com/suparena/tenantstore/storagemodels"
)

const (
	revenueWindow = 30 * 24 * time.Hour
	chartMonths   = 6
)

// RevenuePoint is the paid revenue of one calendar month, in cents.
type RevenuePoint struct {
	Name    string `json:"name"`
	Revenue int64  `json:"revenue"`
}

// DashboardMetrics summarizes a tenant's billing state. Amounts are in cents.
type DashboardMetrics struct {
	MRR                 int64          `json:"mrr"`
	ActiveCustomers     int            `json:"activeCustomers"`
	ActiveSubscriptions int            `json:"activeSubscriptions"`
	RevenueLast30Days   int64          `json:"revenueLast30Days"`
	RevenueChartData    []RevenuePoint `json:"revenueChartData"`
}

// DashboardMetrics computes the metrics of tenantID from its records.
// Subscriptions whose plan no longer exists do not contribute to MRR.
func (s *Service) DashboardMetrics(ctx context.Context, tenantID string) (DashboardMetrics, error) {
	var (
		customers []models.Customer
		plans     []models.Plan
		subs      []models.Subscription
		invoices  []models.Invoice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { customers, err = s.customers.ListForTenant(gctx, tenantID); return })
	g.Go(func() (err error) { plans, err = s.plans.ListForTenant(gctx, tenantID); return })
	g.Go(func() (err error) { subs, err = s.subscriptions.ListForTenant(gctx, tenantID); return })
	g.Go(func() (err error) { invoices, err = s.invoices.ListForTenant(gctx, tenantID); return })
	if err := g.Wait(); err != nil {
		return DashboardMetrics{}, err
	}

	var m DashboardMetrics
	for _, c := range customers {
		if c.Status == models.CustomerActive {
			m.ActiveCustomers++
		}
	}

	planByID := make(map[string]models.Plan, len(plans))
	for _, p := range plans {
		planByID[p.ID] = p
	}
	for _, sub := range subs {
		if sub.Status != models.SubscriptionActive {
			continue
		}
		m.ActiveSubscriptions++
		if p, ok := planByID[sub.PlanID]; ok {
			m.MRR += p.MonthlyPrice()
		}
	}

	now := s.now().UTC()
	windowStart := now.Add(-revenueWindow)
	m.RevenueChartData = monthBuckets(now)
	firstMonth := monthStart(now).AddDate(0, -(chartMonths - 1), 0)
	for _, inv := range invoices {
		if inv.Status != models.InvoicePaid {
			continue
		}
		issued := time.Time(inv.IssueDate).UTC()
		if !issued.Before(windowStart) && !issued.After(now) {
			m.RevenueLast30Days += inv.Amount
		}
		if issued.Before(firstMonth) || issued.After(now) {
			continue
		}
		i := monthsBetween(firstMonth, issued)
		m.RevenueChartData[i].Revenue += inv.Amount
	}
	return m, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthsBetween(from, t time.Time) int {
	return (t.Year()-from.Year())*12 + int(t.Month()) - int(from.Month())
}

// monthBuckets returns the last chartMonths calendar months ending with the
// month of now, oldest first.
func monthBuckets(now time.Time) []RevenuePoint {
	first := monthStart(now).AddDate(0, -(chartMonths - 1), 0)
	out := make([]RevenuePoint, chartMonths)
	for i := range out {
		out[i].Name = first.AddDate(0, i, 0).Month().String()[:3]
	}
	return out
}
