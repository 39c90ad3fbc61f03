package repository

import "github.com/tu-usuario/retencion-ar/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para facturas y sus
// líneas. Las facturas entran al dominio como base de imputación de pagos y
// como origen de percepciones IIBB en ventas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	// GetByID devuelve la factura con líneas cargadas.
	GetByID(id string) (*entity.Invoice, error)
	GetByIDs(ids []string) (map[string]*entity.Invoice, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error)
	Update(invoice *entity.Invoice) error
	Delete(id string) error
}
