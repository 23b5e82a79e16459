package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/middleware"
	"github.com/ukydev/marine-pms/internal/models"
)

// RouterDeps carries everything the HTTP surface is built from.
type RouterDeps struct {
	Auth   *AuthHandler
	PMS    *PMSHandler
	AuthMW *middleware.AuthMiddleware
	// Inventory, CRM, Notifications and Activity are optional; their
	// routes are only mounted when set.
	Inventory     *InventoryHandler
	CRM           *CRMHandler
	Notifications *NotificationHandler
	Activity      *ActivityHandler
	// Audit receives an entry for every successful mutating request.
	Audit     middleware.ActivityRecorder
	RateLimit *middleware.RateLimitMiddleware
	// MaxRequests per Window and client; zero disables rate limiting.
	MaxRequests int
	Window      time.Duration
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
	// Ping reports store health for /health; nil means always healthy.
	Ping func(ctx context.Context) error
	Log  logrus.FieldLogger
}

// NewRouter wires every route behind request ids, request logging, rate
// limiting and authentication.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(deps.Log))
	if deps.RateLimit != nil && deps.MaxRequests > 0 {
		r.Use(deps.RateLimit.RateLimit(deps.MaxRequests, deps.Window))
	}
	r.Use(deps.AuthMW.Authenticate)
	if deps.Audit != nil {
		r.Use(middleware.Audit(deps.Audit, "/api/auth/login", "/api/auth/logout"))
	}

	r.Get("/health", healthHandler(deps.Ping))

	allow := deps.AuthMW.RequirePermission
	a, p := deps.Auth, deps.PMS

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", a.Login)
		r.Post("/logout", a.Logout)
		r.Post("/register", a.Register)
		r.Post("/forgot-password", a.ForgotPassword)
		r.Post("/reset-password", a.ResetPassword)
		r.Get("/profile", a.GetProfile)
		r.Put("/profile", a.UpdateProfile)
		r.Post("/change-password", a.ChangePassword)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(allow(models.ActionManageUsers))
		r.Get("/", a.ListUsers)
		r.Delete("/{id}", a.DeleteUser)
	})

	r.Route("/api/vessels", func(r chi.Router) {
		r.With(allow(models.ActionViewPMS)).Get("/", p.ListVessels)
		r.With(allow(models.ActionManageVessels)).Post("/", p.CreateVessel)
		r.With(allow(models.ActionViewPMS)).Get("/{id}", p.GetVessel)
		r.With(allow(models.ActionViewPMS)).Get("/{id}/equipment-tree", p.EquipmentTree)
		r.With(allow(models.ActionViewPMS)).Get("/{id}/equipment", p.VesselEquipment)
	})

	r.Route("/api/equipment", func(r chi.Router) {
		r.With(allow(models.ActionManageEquipment)).Post("/", p.CreateEquipment)
		r.With(allow(models.ActionViewPMS)).Get("/{id}", p.GetEquipment)
		r.With(allow(models.ActionManageEquipment)).Put("/{id}", p.UpdateEquipment)
		r.With(allow(models.ActionManageEquipment)).Delete("/{id}", p.DeleteEquipment)
	})

	r.Route("/api/running-hours", func(r chi.Router) {
		r.With(allow(models.ActionRecordRunningHours)).Post("/record", p.RecordHours)
		r.With(allow(models.ActionRecordRunningHours)).Post("/record/bulk", p.RecordHoursBulk)
		r.With(allow(models.ActionViewPMS)).Get("/vessel/{id}/latest", p.VesselLatestHours)
		r.With(allow(models.ActionViewPMS)).Get("/equipment/{id}/history", p.HoursHistory)
		r.With(allow(models.ActionViewPMS)).Get("/equipment/{id}/chart", p.HoursChart)
		r.With(allow(models.ActionExportReports)).Get("/equipment/{id}/export", p.ExportHours)
	})

	r.Route("/api/maintenance", func(r chi.Router) {
		r.With(allow(models.ActionViewPMS)).Get("/plans", p.ListPlans)
		r.With(allow(models.ActionManageMaintenancePlans)).Post("/plans", p.CreatePlan)
		r.With(allow(models.ActionViewPMS)).Get("/plans/due", p.DuePlans)
		r.With(allow(models.ActionViewPMS)).Get("/plans/{id}", p.GetPlan)
		r.With(allow(models.ActionManageMaintenancePlans)).Put("/plans/{id}", p.UpdatePlan)

		r.With(allow(models.ActionViewPMS)).Get("/work-orders", p.ListWorkOrders)
		r.With(allow(models.ActionManageWorkOrders)).Post("/work-orders", p.CreateWorkOrder)
		r.With(allow(models.ActionViewPMS)).Get("/work-orders/stats", p.WorkOrderStats)
		r.With(allow(models.ActionViewPMS)).Get("/work-orders/overdue", p.OverdueWorkOrders)
		r.With(allow(models.ActionViewPMS)).Get("/work-orders/upcoming", p.UpcomingWorkOrders)
		r.With(allow(models.ActionViewPMS)).Get("/work-orders/calendar", p.WorkOrderCalendar)
		r.With(allow(models.ActionViewPMS)).Get("/work-orders/{id}", p.GetWorkOrder)
		r.With(allow(models.ActionManageWorkOrders)).Put("/work-orders/{id}", p.UpdateWorkOrder)
	})

	r.Route("/api/analytics", func(r chi.Router) {
		r.Use(allow(models.ActionViewAnalytics))
		r.Get("/pms-completion-rate", p.CompletionRate)
		r.Get("/work-order-distribution", p.WorkOrderDistribution)
		r.Get("/equipment-reliability", p.EquipmentReliability)
		r.Get("/vessel-summary", p.VesselSummary)
		if inv := deps.Inventory; inv != nil {
			r.Get("/inventory-by-brand", inv.InventoryByBrand)
			r.Get("/inventory-value-by-brand", inv.InventoryValueByBrand)
			r.Get("/low-stock-summary", inv.LowStockSummary)
		}
		if c := deps.CRM; c != nil {
			r.Get("/order-status-distribution", c.OrderStatusDistribution)
			r.Get("/monthly-orders", c.MonthlyOrders)
		}
	})

	if inv := deps.Inventory; inv != nil {
		mountInventory(r, allow, inv)
	}
	if c := deps.CRM; c != nil {
		mountCRM(r, allow, c)
	}
	if n := deps.Notifications; n != nil {
		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/", n.List)
			r.Get("/unread-count", n.UnreadCount)
			r.Put("/read-all", n.MarkAllRead)
			r.Put("/{id}/read", n.MarkRead)
			r.With(allow(models.ActionManageInventory)).Post("/check-low-stock", n.CheckLowStock)
		})
	}
	if act := deps.Activity; act != nil {
		r.Route("/api/activity", func(r chi.Router) {
			r.Use(allow(models.ActionViewActivity))
			r.Get("/logs", act.Logs)
			r.Get("/online", act.Online)
		})
	}

	return r
}

type permit func(models.Action) func(http.Handler) http.Handler

func mountInventory(r chi.Router, allow permit, h *InventoryHandler) {
	r.Route("/api/parts", func(r chi.Router) {
		r.With(allow(models.ActionViewInventory)).Get("/", h.ListParts)
		r.With(allow(models.ActionManageInventory)).Post("/", h.CreatePart)
		r.With(allow(models.ActionViewInventory)).Get("/brands/list", h.PartBrands)
		r.With(allow(models.ActionViewInventory)).Get("/categories/list", h.PartCategories)
		r.With(allow(models.ActionViewInventory)).Get("/{id}", h.GetPart)
		r.With(allow(models.ActionManageInventory)).Put("/{id}", h.UpdatePart)
		r.With(allow(models.ActionManageInventory)).Delete("/{id}", h.DeletePart)
	})

	r.Route("/api/inventory", func(r chi.Router) {
		r.With(allow(models.ActionViewInventory)).Get("/", h.ListStock)
		r.With(allow(models.ActionViewInventory)).Get("/low-stock", h.LowStock)
		r.With(allow(models.ActionViewInventory)).Get("/stats", h.StockStats)
		r.With(allow(models.ActionManageInventory)).Put("/{id}", h.UpdateStock)
		r.With(allow(models.ActionManageInventory)).Post("/{id}/adjust", h.AdjustStock)
	})
}

func mountCRM(r chi.Router, allow permit, h *CRMHandler) {
	r.Route("/api/customers", func(r chi.Router) {
		r.Use(allow(models.ActionManageCustomers))
		r.Get("/", h.ListCustomers)
		r.Post("/", h.CreateCustomer)
		r.Get("/{id}", h.GetCustomer)
		r.Put("/{id}", h.UpdateCustomer)
		r.Delete("/{id}", h.DeleteCustomer)
	})

	r.Route("/api/service-orders", func(r chi.Router) {
		r.Get("/my-orders", h.MyOrders)
		r.Group(func(r chi.Router) {
			r.Use(allow(models.ActionManageCustomers))
			r.Get("/", h.ListOrders)
			r.Post("/", h.CreateOrder)
			r.Get("/stats", h.OrderStats)
			r.Get("/{id}", h.GetOrder)
			r.Put("/{id}", h.UpdateOrder)
		})
	})

	r.Route("/api/inquiries", func(r chi.Router) {
		r.Post("/", h.CreateInquiry)
		r.Group(func(r chi.Router) {
			r.Use(allow(models.ActionManageCustomers))
			r.Get("/", h.ListInquiries)
			r.Get("/{id}", h.GetInquiry)
			r.Put("/{id}", h.UpdateInquiry)
		})
	})
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
