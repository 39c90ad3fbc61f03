package withholding

import (
	"context"

	"github.com/tu-usuario/retencion-ar/internal/domain/repository"
)

// Repos paquete de repositorios que el caso de uso necesita, atados al pool
// o a una transacción según quién los construya.
type Repos struct {
	Companies    repository.CompanyRepository
	Parties      repository.PartyRepository
	Regimes      repository.RegimeRepository
	Vouchers     repository.VoucherRepository
	Invoices     repository.InvoiceRepository
	Withholdings repository.WithholdingRepository
}

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// Los cálculos leen una foto consistente del período y escriben sus líneas
// en la misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
