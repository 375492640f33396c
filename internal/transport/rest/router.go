package rest

import (
	"database/sql"
	"log/slog"

	"github.com/centrushr/hr-management/internal/attachment"
	"github.com/centrushr/hr-management/internal/auth"
	"github.com/centrushr/hr-management/internal/employee"
	"github.com/centrushr/hr-management/internal/notification"
	"github.com/centrushr/hr-management/internal/transport/middleware"
	"github.com/centrushr/hr-management/internal/travel"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	employeeHandler *employee.Handler,
	travelHandler *travel.Handler,
	attachmentHandler *attachment.Handler,
	notificationHandler *notification.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", authHandler.Login)

		// The websocket stream authenticates via query token, outside the
		// session middleware.
		r.Get("/notifications/stream", notificationHandler.Stream)

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.SessionMiddleware)

			pr.Post("/auth/logout", authHandler.Logout)
			pr.Get("/users/me", authHandler.GetCurrentUser)

			pr.Route("/users", func(ur chi.Router) {
				ur.Use(authHandler.RequireAdmin())
				ur.Get("/", authHandler.ListUsers)
				ur.Post("/", authHandler.CreateUser)
				ur.Put("/{id}", authHandler.UpdateUser)
				ur.Patch("/{id}/status", authHandler.SetUserStatus)
				ur.Delete("/{id}", authHandler.DeleteUser)
			})
			pr.Get("/capabilities", authHandler.ListCapabilities)

			pr.Route("/employees", func(er chi.Router) {
				er.With(authHandler.RequireCapability(auth.CapEmployeeList)).Get("/", employeeHandler.ListEmployees)
				er.With(authHandler.RequireCapability(auth.CapEmployeeList)).Get("/{id}", employeeHandler.GetEmployee)
				er.With(authHandler.RequireCapability(auth.CapEmployeeCreate)).Post("/", employeeHandler.CreateEmployee)
				er.With(authHandler.RequireCapability(auth.CapEmployeeCreate)).Put("/{id}", employeeHandler.UpdateEmployee)
				er.With(authHandler.RequireCapability(auth.CapEmployeeCreate)).Delete("/{id}", employeeHandler.DeleteEmployee)

				er.Group(func(dr chi.Router) {
					dr.Use(authHandler.RequireCapability(auth.CapEmployeeDocuments))
					dr.Post("/{id}/documents", employeeHandler.UploadDocument)
					dr.Get("/{id}/documents", employeeHandler.ListDocuments)
					dr.Get("/{id}/documents/{docID}", employeeHandler.GetDocument)
					dr.Delete("/{id}/documents/{docID}", employeeHandler.DeleteDocument)
				})
			})

			pr.Route("/reports/documents", func(rr chi.Router) {
				rr.Use(authHandler.RequireCapability(auth.CapReports))
				rr.Get("/", employeeHandler.DocumentReport)
				rr.Get("/csv", employeeHandler.DocumentReportCSV)
			})

			pr.Route("/company-documents", func(cr chi.Router) {
				cr.Use(authHandler.RequireCapability(auth.CapCompanyDocuments))
				cr.Get("/", employeeHandler.ListCompanyDocuments)
				cr.Post("/", employeeHandler.UploadCompanyDocument)
				cr.Get("/{id}", employeeHandler.GetCompanyDocument)
				cr.Patch("/{id}/pin", employeeHandler.PinCompanyDocument)
				cr.Delete("/{id}", employeeHandler.DeleteCompanyDocument)
			})

			pr.Route("/travel-requests", func(tr chi.Router) {
				tr.Use(authHandler.RequireCapability(auth.CapTravelRequests))

				tr.Get("/", travelHandler.ListRequests)
				tr.Get("/{id}", travelHandler.GetRequest)

				tr.With(authHandler.RequireTravelAction(auth.TravelCreate)).Post("/", travelHandler.CreateRequest)
				tr.With(authHandler.RequireTravelAction(auth.TravelApprove)).Patch("/{id}/approve", travelHandler.ApproveRequest)
				tr.With(authHandler.RequireTravelAction(auth.TravelApprove)).Patch("/{id}/reject", travelHandler.RejectRequest)
				tr.With(authHandler.RequireTravelAction(auth.TravelDelete)).Delete("/{id}", travelHandler.DeleteRequest)

				tr.Group(func(ar chi.Router) {
					ar.Use(authHandler.RequireCapability(auth.CapTravelAttachments))
					ar.Post("/{id}/attachments", attachmentHandler.Upload)
					ar.Get("/{id}/attachments", attachmentHandler.List)
					ar.Get("/{id}/attachments/{attachmentID}", attachmentHandler.Get)
					ar.Delete("/{id}/attachments/{attachmentID}", attachmentHandler.Delete)
				})
			})

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", notificationHandler.List)
				nr.Get("/unread", notificationHandler.CountUnread)
				nr.Patch("/{id}/read", notificationHandler.MarkRead)
				nr.Patch("/read-all", notificationHandler.MarkAllRead)
				nr.Delete("/{id}", notificationHandler.Delete)
				nr.Delete("/", notificationHandler.DeleteAll)
			})
		})
	})
}
