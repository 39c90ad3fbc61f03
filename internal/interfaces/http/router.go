package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retencion-ar/internal/application/auth"
	"github.com/tu-usuario/retencion-ar/internal/application/reports"
	"github.com/tu-usuario/retencion-ar/internal/application/sicore"
	"github.com/tu-usuario/retencion-ar/internal/application/usecase"
	"github.com/tu-usuario/retencion-ar/internal/application/withholding"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	RegimeUC      *usecase.RegimeUseCase
	PartyUC       *usecase.PartyUseCase
	WithholdingUC *withholding.UseCase
	SICOREUC      *sicore.UseCase
	ReportsUC     *reports.UseCase
	AuthUC        *auth.AuthUseCase
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

	// Companies: alta pública (bootstrap del tenant), el resto protegido
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	companies := protected.Group("/companies")
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", RequireRole(entity.RoleAdmin), companyHandler.Update)

	// Regímenes: la configuración impositiva la tocan admin y contador
	regimes := protected.Group("/regimes")
	regimeHandler := NewRegimeHandler(deps.RegimeUC)
	regimes.Get("/", regimeHandler.List)
	regimes.Get("/:id", regimeHandler.GetByID)
	regimes.Post("/", RequireRole(entity.RoleAdmin, entity.RoleContador), regimeHandler.Create)
	regimes.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleContador), regimeHandler.Update)
	regimes.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleContador), regimeHandler.Delete)

	// Terceros (protegido)
	parties := protected.Group("/parties")
	partyHandler := NewPartyHandler(deps.PartyUC)
	parties.Post("/", partyHandler.Create)
	parties.Get("/", partyHandler.List)
	parties.Get("/:id", partyHandler.GetByID)
	parties.Put("/:id", partyHandler.Update)
	parties.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleContador), partyHandler.Delete)

	// Comprobantes de pago/cobranza y su ciclo de vida
	vouchers := protected.Group("/vouchers")
	voucherHandler := NewVoucherHandler(deps.WithholdingUC)
	vouchers.Post("/", voucherHandler.Create)
	vouchers.Get("/", voucherHandler.List)
	vouchers.Get("/:id", voucherHandler.GetByID)
	vouchers.Delete("/:id", voucherHandler.Delete)
	vouchers.Post("/:id/calculate", voucherHandler.Calculate)
	vouchers.Post("/:id/post", voucherHandler.Post)
	vouchers.Post("/:id/cancel", RequireRole(entity.RoleAdmin, entity.RoleContador), voucherHandler.Cancel)
	vouchers.Post("/:id/withholdings", voucherHandler.AddWithholding)

	// Facturas y percepciones de venta
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.WithholdingUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/perceptions", invoiceHandler.CalculatePerceptions)

	// Retenciones/percepciones y certificados
	withholdings := protected.Group("/withholdings")
	withholdingHandler := NewWithholdingHandler(deps.WithholdingUC, deps.ReportsUC)
	withholdings.Get("/", withholdingHandler.List)
	withholdings.Delete("/:id", withholdingHandler.Delete)
	withholdings.Get("/:id/certificate", withholdingHandler.Certificate)

	// Exportación regulatoria SICORE
	sicoreGroup := protected.Group("/sicore", RequireRole(entity.RoleAdmin, entity.RoleContador))
	sicoreHandler := NewSICOREHandler(deps.SICOREUC)
	sicoreGroup.Post("/export", sicoreHandler.Export)
	sicoreGroup.Post("/summary", sicoreHandler.ExportSummary)

	// Reportes de gestión
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportsUC)
	reportsGroup.Get("/jurisdiction", reportHandler.Jurisdiction)
}
