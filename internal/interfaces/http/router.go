package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/credipronto/originacion-api/internal/application/auth"
	"github.com/credipronto/originacion-api/internal/application/corrections"
	"github.com/credipronto/originacion-api/internal/application/documents"
	"github.com/credipronto/originacion-api/internal/application/loans"
	"github.com/credipronto/originacion-api/internal/application/onboarding"
	"github.com/credipronto/originacion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.UseCase
	OnboardingUC  *onboarding.UseCase
	LoansUC       *loans.UseCase
	CorrectionsUC *corrections.UseCase
	DocumentsUC   *documents.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	analyst := RequireRole(entity.RoleAnalista, entity.RoleAdmin)

	// Expediente del solicitante (protegido)
	onboardingHandler := NewOnboardingHandler(deps.OnboardingUC)
	me := protected.Group("/me")
	me.Get("/profile", onboardingHandler.GetProfile)
	me.Put("/profile", onboardingHandler.SaveProfile)
	me.Put("/address", onboardingHandler.SaveAddress)
	me.Put("/employment", onboardingHandler.SaveEmployment)
	me.Post("/signature", onboardingHandler.Sign)

	// Solicitudes (protegido, lado solicitante)
	applications := protected.Group("/applications")
	applicationHandler := NewApplicationHandler(deps.LoansUC)
	applications.Post("/", applicationHandler.Create)
	applications.Get("/", applicationHandler.List)
	applications.Get("/:id", applicationHandler.GetByID)
	applications.Get("/:id/timeline", applicationHandler.Timeline)
	applications.Get("/:id/history", applicationHandler.History)
	applications.Post("/:id/submit", applicationHandler.Submit)
	applications.Post("/:id/cancel", applicationHandler.Cancel)
	applications.Post("/:id/accept-counter-offer", applicationHandler.AcceptCounterOffer)

	// Referencias (protegido, lado solicitante)
	applications.Post("/:id/references", onboardingHandler.AddReference)
	applications.Get("/:id/references", onboardingHandler.ListReferences)

	// Documentos (carga del solicitante, revisión del analista)
	documentHandler := NewDocumentHandler(deps.DocumentsUC)
	applications.Post("/:id/documents", documentHandler.Upload)
	applications.Get("/:id/documents", documentHandler.List)
	docs := protected.Group("/documents")
	docs.Get("/:docId/download", documentHandler.Download)
	docs.Post("/:docId/approve", analyst, documentHandler.Approve)
	docs.Post("/:docId/reject", analyst, documentHandler.Reject)

	// Revisión (protegido, rol analista/admin)
	review := protected.Group("/review", analyst)
	reviewHandler := NewReviewHandler(deps.LoansUC)
	review.Post("/applications/:id/start", reviewHandler.StartReview)
	review.Post("/applications/:id/request-docs", reviewHandler.RequestDocs)
	review.Post("/applications/:id/request-corrections", reviewHandler.RequestCorrections)
	review.Post("/applications/:id/counter-offer", reviewHandler.CounterOffer)
	review.Post("/applications/:id/approve", reviewHandler.Approve)
	review.Post("/applications/:id/reject", reviewHandler.Reject)
	review.Post("/applications/:id/disburse", reviewHandler.Disburse)
	review.Post("/applications/:id/mark-synced", reviewHandler.MarkSynced)

	// Verificación de campos y correcciones
	correctionHandler := NewCorrectionHandler(deps.CorrectionsUC)
	review.Post("/applicants/:applicantId/fields/reject", correctionHandler.RejectField)
	review.Get("/applicants/:applicantId/fields/rejected", correctionHandler.ListRejected)
	review.Get("/applicants/:applicantId/corrections", correctionHandler.History)
	me.Get("/fields/rejected", correctionHandler.MyRejected)
	me.Post("/corrections", correctionHandler.SubmitCorrection)
}
