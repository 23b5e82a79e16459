package crm

import (
	"context"
	"fmt"
	"sort"

	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/models"
)

// monthlyWindow is how many of the most recent active months the order
// trend covers.
const monthlyWindow = 6

// StatusCount is the number of orders in one status.
type StatusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int                `json:"count"`
}

// MonthCount is the number of orders created in one month, as YYYY-MM.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

var statusOrder = map[models.OrderStatus]int{
	models.OrderPending:    0,
	models.OrderInProgress: 1,
	models.OrderCompleted:  2,
	models.OrderCancelled:  3,
}

// StatusDistribution counts orders per stored status, in lifecycle order.
// Unknown statuses sort last, alphabetically.
func StatusDistribution(orders []models.ServiceOrder) []StatusCount {
	counts := make(map[models.OrderStatus]int)
	for _, o := range orders {
		counts[o.Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for st, n := range counts {
		out = append(out, StatusCount{Status: st, Count: n})
	}
	rank := func(st models.OrderStatus) int {
		if r, ok := statusOrder[st]; ok {
			return r
		}
		return len(statusOrder)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := rank(out[i].Status), rank(out[j].Status)
		if ri != rj {
			return ri < rj
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// MonthlyOrders counts orders per creation month (UTC) over the most recent
// months that have any, oldest first.
func MonthlyOrders(orders []models.ServiceOrder) []MonthCount {
	counts := make(map[string]int)
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		counts[o.CreatedAt.UTC().Format("2006-01")]++
	}
	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)
	if len(months) > monthlyWindow {
		months = months[len(months)-monthlyWindow:]
	}
	out := make([]MonthCount, 0, len(months))
	for _, m := range months {
		out = append(out, MonthCount{Month: m, Count: counts[m]})
	}
	return out
}

func (s *Service) allOrders(ctx context.Context) ([]models.ServiceOrder, error) {
	orders, err := s.orders.FindServiceOrders(ctx, db.ServiceOrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("find service orders: %w", err)
	}
	return orders, nil
}

// OrderStatusDistribution reports how orders spread over statuses.
func (s *Service) OrderStatusDistribution(ctx context.Context) ([]StatusCount, error) {
	orders, err := s.allOrders(ctx)
	if err != nil {
		return nil, err
	}
	return StatusDistribution(orders), nil
}

// MonthlyOrderTrend reports orders created per month.
func (s *Service) MonthlyOrderTrend(ctx context.Context) ([]MonthCount, error) {
	orders, err := s.allOrders(ctx)
	if err != nil {
		return nil, err
	}
	return MonthlyOrders(orders), nil
}
