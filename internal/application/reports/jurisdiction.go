// Package reports arma los reportes de gestión sobre retenciones y
// percepciones: el listado por jurisdicción y el certificado PDF de
// retención para el proveedor.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retencion-ar/internal/application/dto"
	"github.com/tu-usuario/retencion-ar/internal/application/withholding"
	"github.com/tu-usuario/retencion-ar/internal/domain"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/internal/domain/repository"
	"github.com/tu-usuario/retencion-ar/pkg/afip"
	"github.com/tu-usuario/retencion-ar/pkg/logger"
)

// CertificateGenerator genera el certificado de retención en PDF.
type CertificateGenerator interface {
	Generate(company *entity.Company, party *entity.Party, regime *entity.Regime, w *entity.Withholding) ([]byte, error)
}

// UseCase caso de uso de reportes.
type UseCase struct {
	repos withholding.Repos
	pdf   CertificateGenerator
	log   *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos withholding.Repos, pdf CertificateGenerator, log *logger.Logger) *UseCase {
	return &UseCase{repos: repos, pdf: pdf, log: log}
}

// Jurisdiction lista registro por registro las retenciones y percepciones
// emitidas/en cartera del rango cuya jurisdicción de régimen coincide con la
// pedida, ordenadas por fecha y número de documento.
func (uc *UseCase) Jurisdiction(ctx context.Context, companyID string, req dto.JurisdictionReportRequest) (*dto.JurisdictionReportResponse, error) {
	from, err := time.Parse(time.DateOnly, req.From)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha desde inválida", domain.ErrInvalidInput)
	}
	to, err := time.Parse(time.DateOnly, req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha hasta inválida", domain.ErrInvalidInput)
	}
	if req.Subdivision == "" {
		return nil, fmt.Errorf("%w: jurisdicción requerida", domain.ErrInvalidInput)
	}

	lines, err := uc.repos.Withholdings.ListByCompany(companyID, repository.WithholdingFilter{
		From:  from,
		To:    to,
		Limit: -1, // sin paginar: el reporte cubre el rango completo
	})
	if err != nil {
		return nil, err
	}

	regimes := make(map[string]*entity.Regime)
	parties := make(map[string]*entity.Party)
	out := &dto.JurisdictionReportResponse{
		From:        req.From,
		To:          req.To,
		Subdivision: req.Subdivision,
		Rows:        []dto.JurisdictionReportRow{},
		BaseTotal:   decimal.Zero,
		Total:       decimal.Zero,
	}
	for _, w := range lines {
		if w.State != entity.WithholdingStateIssued && w.State != entity.WithholdingStateHeld {
			continue
		}
		regime, ok := regimes[w.RegimeID]
		if !ok {
			regime, err = uc.repos.Regimes.GetByID(w.RegimeID)
			if err != nil {
				return nil, err
			}
			regimes[w.RegimeID] = regime
		}
		if regime == nil || regime.Subdivision != req.Subdivision {
			continue
		}

		var partyName, partyCUIT string
		if w.PartyID != "" {
			party, ok := parties[w.PartyID]
			if !ok {
				party, err = uc.repos.Parties.GetByID(w.PartyID)
				if err != nil {
					return nil, err
				}
				parties[w.PartyID] = party
			}
			if party != nil {
				partyName = party.Name
				if formatted, ok := afip.FormatCUIT(party.CUIT); ok {
					partyCUIT = formatted
				} else {
					partyCUIT = party.CUIT
				}
			}
		}

		out.Rows = append(out.Rows, dto.JurisdictionReportRow{
			Date:       w.Date.Format(time.DateOnly),
			Number:     w.Number,
			Kind:       w.Kind,
			PartyName:  partyName,
			PartyCUIT:  partyCUIT,
			RegimeID:   regime.ID,
			RegimeName: regime.Name,
			Base:       w.PaymentAmount,
			Amount:     w.Amount,
		})
		out.BaseTotal = out.BaseTotal.Add(w.PaymentAmount)
		out.Total = out.Total.Add(w.Amount)
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		if out.Rows[i].Date != out.Rows[j].Date {
			return out.Rows[i].Date < out.Rows[j].Date
		}
		return out.Rows[i].Number < out.Rows[j].Number
	})
	return out, nil
}

// Certificate genera el certificado PDF de una retención emitida.
func (uc *UseCase) Certificate(ctx context.Context, companyID, withholdingID string) ([]byte, error) {
	w, err := uc.repos.Withholdings.GetByID(withholdingID)
	if err != nil {
		return nil, err
	}
	if w == nil || w.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if w.State != entity.WithholdingStateIssued {
		return nil, fmt.Errorf("%w: solo las retenciones emitidas tienen certificado", domain.ErrConflict)
	}
	company, err := uc.repos.Companies.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	party, err := uc.repos.Parties.GetByID(w.PartyID)
	if err != nil {
		return nil, err
	}
	regime, err := uc.repos.Regimes.GetByID(w.RegimeID)
	if err != nil {
		return nil, err
	}
	if company == nil || party == nil || regime == nil {
		return nil, domain.ErrNotFound
	}
	return uc.pdf.Generate(company, party, regime, w)
}
