// Package sicore arma el archivo de exportación SICORE a partir de las
// retenciones emitidas de la empresa en un rango de fechas.
package sicore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/application/withholding"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	domsicore "github.com/tu-usuario/retencion-ar/internal/domain/sicore"
	"github.com/tu-usuario/retencion-ar/pkg/logger"
	"golang.org/x/text/encoding/charmap"
)

// exportTaxFamilies familias que informa SICORE: Ganancias e IVA.
var exportTaxFamilies = []string{entity.TaxGanancias, entity.TaxIVA}

// Export resultado del armado: nombre sugerido, contenido ya codificado en
// ISO 8859-1 y diagnósticos de las retenciones quitadas del listado.
type Export struct {
	Filename string
	Content  []byte
	Lines    int
	Skipped  []string
}

// UseCase caso de uso de exportación SICORE.
type UseCase struct {
	repos withholding.Repos
	log   *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos withholding.Repos, log *logger.Logger) *UseCase {
	return &UseCase{repos: repos, log: log}
}

// Export codifica las retenciones emitidas del rango. Una retención sin
// comprobante de origen rastreable no aborta el lote: se quita del listado y
// su diagnóstico vuelve al operador.
func (uc *UseCase) Export(ctx context.Context, companyID string, req dto.SICOREExportRequest) (*Export, error) {
	from, err := time.Parse(time.DateOnly, req.From)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha desde inválida", domain.ErrInvalidInput)
	}
	to, err := time.Parse(time.DateOnly, req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha hasta inválida", domain.ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: el rango de fechas está invertido", domain.ErrInvalidInput)
	}
	if err := uc.validateRegimeSet(companyID, req.RegimeIDs); err != nil {
		return nil, err
	}

	lines, err := uc.repos.Withholdings.ListIssuedForExport(companyID, from, to, exportTaxFamilies, req.RegimeIDs)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	var skipped []string
	count := 0
	for _, w := range lines {
		regime, err := uc.repos.Regimes.GetByID(w.RegimeID)
		if err != nil {
			return nil, err
		}
		party, err := uc.repos.Parties.GetByID(w.PartyID)
		if err != nil {
			return nil, err
		}
		if regime == nil || party == nil {
			skipped = append(skipped, fmt.Sprintf(
				"ERROR: la retención %s no resuelve régimen o tercero. Fue quitada del listado.", w.Number))
			continue
		}

		source, err := uc.resolveSource(w)
		if err != nil {
			return nil, err
		}
		text, ok, message := domsicore.Format(w, regime, party, source, req.CSVFormat)
		if !ok {
			skipped = append(skipped, message)
			continue
		}
		sb.WriteString(text)
		count++
	}

	content, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("codificar ISO 8859-1: %w", err)
	}

	ext := "txt"
	if req.CSVFormat {
		ext = "csv"
	}
	export := &Export{
		Filename: fmt.Sprintf("SICORE_%s-%s.%s", from.Format("20060102"), to.Format("20060102"), ext),
		Content:  content,
		Lines:    count,
		Skipped:  skipped,
	}

	uc.log.Info().
		Str("filename", export.Filename).
		Int("lines", count).
		Int("skipped", len(skipped)).
		Msg("exportación SICORE generada")
	return export, nil
}

// validateRegimeSet verifica que cada régimen elegido por el operador exista,
// pertenezca a la empresa y sea una retención efectuada de Ganancias o IVA
// (las únicas familias que SICORE informa).
func (uc *UseCase) validateRegimeSet(companyID string, regimeIDs []string) error {
	for _, id := range regimeIDs {
		regime, err := uc.repos.Regimes.GetByID(id)
		if err != nil {
			return err
		}
		if regime == nil || regime.CompanyID != companyID {
			return fmt.Errorf("%w: régimen %s", domain.ErrNotFound, id)
		}
		if regime.Kind != entity.RegimeKindEfectuada {
			return fmt.Errorf("%w: el régimen %s no es una retención efectuada", domain.ErrInvalidInput, id)
		}
		if regime.Tax != entity.TaxGanancias && regime.Tax != entity.TaxIVA {
			return fmt.Errorf("%w: el régimen %s no pertenece a Ganancias ni IVA", domain.ErrInvalidInput, id)
		}
	}
	return nil
}

// resolveSource rastrea el comprobante de origen de la retención: la orden de
// pago para retenciones de pago, la factura para percepciones. Devuelve nil
// si el vínculo no resuelve.
func (uc *UseCase) resolveSource(w *entity.Withholding) (*domsicore.Source, error) {
	switch {
	case w.VoucherID != "":
		voucher, err := uc.repos.Vouchers.GetByID(w.VoucherID)
		if err != nil {
			return nil, err
		}
		if voucher == nil {
			return nil, nil
		}
		return &domsicore.Source{
			Code:   domsicore.SourceCodePaymentOrder,
			Date:   voucher.Date,
			Number: voucher.Number,
			Amount: voucher.Amount,
		}, nil
	case w.InvoiceID != "":
		invoice, err := uc.repos.Invoices.GetByID(w.InvoiceID)
		if err != nil {
			return nil, err
		}
		if invoice == nil {
			return nil, nil
		}
		return &domsicore.Source{
			Code:   domsicore.SourceCodeInvoice,
			Date:   invoice.Date,
			Number: invoice.Number,
			Amount: invoice.TotalAmount,
		}, nil
	default:
		return nil, nil
	}
}
