// Package pdf implementa la generación del Certificado de Retención que se
// entrega al proveedor junto con la orden de pago (RG AFIP 2233, art. 8).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + CUIT  │  N° Certificado + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  AGENTE DE RETENCIÓN: domicilio / jurisdicción               │
//	│  SUJETO RETENIDO: Nombre + CUIT + condición                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RÉGIMEN: nombre, impuesto, código                           │
//	│  DETALLE: base / mínimo / alícuota / importe retenido        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda legal + firma del agente                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/retencion-ar/internal/application/reports"
	"github.com/tu-usuario/retencion-ar/internal/domain/entity"
	"github.com/tu-usuario/retencion-ar/pkg/afip"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ reports.CertificateGenerator = (*MarotoCertificateGenerator)(nil)

// MarotoCertificateGenerator implementa reports.CertificateGenerator usando Maroto v2.
type MarotoCertificateGenerator struct{}

// NewMarotoCertificateGenerator construye el generador.
func NewMarotoCertificateGenerator() *MarotoCertificateGenerator { return &MarotoCertificateGenerator{} }

// Generate genera el certificado en PDF y devuelve sus bytes.
func (g *MarotoCertificateGenerator) Generate(
	company *entity.Company,
	party *entity.Party,
	regime *entity.Regime,
	w *entity.Withholding,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Certificado de Retención", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(company, w))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(agentRow(company))
	m.AddRows(partyRow(party, regime))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(regimeRow(regime))
	m.AddRows(detailRows(w)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRows()...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar certificado: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + CUIT (izq) y N° certificado + fecha (der).
func headerRow(company *entity.Company, w *entity.Withholding) core.Row {
	cuit, _ := afip.FormatCUIT(company.CUIT)
	fecha := w.Date.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CUIT: "+cuit, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CERTIFICADO DE RETENCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(w.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// agentRow: datos del agente de retención.
func agentRow(company *entity.Company) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("AGENTE DE RETENCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Domicilio: %s   |   Jurisdicción: %s",
				nonEmpty(company.Address, "—"),
				nonEmpty(company.Subdivision, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// partyRow: datos del sujeto retenido.
func partyRow(party *entity.Party, regime *entity.Regime) core.Row {
	cuit, _ := afip.FormatCUIT(party.CUIT)
	return row.New(14).Add(
		col.New(12).Add(
			text.New("SUJETO RETENIDO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(party.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("CUIT: %s   |   Condición: %s",
				cuit, conditionLabel(party, regime.Tax),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// regimeRow: identidad del régimen aplicado.
func regimeRow(regime *entity.Regime) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("RÉGIMEN APLICADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Impuesto: %s   |   Código: %03d",
				regime.Name, taxLabel(regime.Tax), regime.RegimeCode,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// detailRows: detalle del cómputo, un par etiqueta/valor por renglón.
func detailRows(w *entity.Withholding) []core.Row {
	pair := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(2),
			col.New(5).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1,
			})),
			col.New(3).Add(text.New(value, props.Text{
				Size: 9, Align: align.Right, Right: 1, Top: 1,
			})),
			col.New(2),
		)
	}
	grand := func(label, value string) core.Row {
		return row.New(8).Add(
			col.New(2),
			col.New(5).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 1,
			})),
			col.New(3).Add(text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 1,
			})),
			col.New(2),
		)
	}
	return []core.Row{
		pair("Base de la operación:", "$"+w.PaymentAmount.StringFixed(2)),
		pair("Base acumulada del período:", "$"+w.AccumulatedAmount.StringFixed(2)),
		pair("Mínimo no imponible:", "$"+w.MinimumNonTaxable.StringFixed(2)),
		pair("Base imponible:", "$"+w.TaxableAmount.StringFixed(2)),
		pair("Alícuota:", w.Rate.StringFixed(2)+"%"),
		pair("Retención del período:", "$"+w.ComputedAmount.StringFixed(2)),
		pair("Ya retenido en el período:", "$"+w.AccumulatedWithheld.StringFixed(2)),
		grand("IMPORTE RETENIDO:", "$"+w.Amount.StringFixed(2)),
	}
}

// footerRows: leyenda legal + espacio de firma.
func footerRows() []core.Row {
	return []core.Row{
		row.New(10).Add(
			col.New(12).Add(text.New(
				"El presente certificado se extiende de acuerdo con las normas vigentes "+
					"y reviste el carácter de constancia de la retención practicada.",
				props.Text{Size: 8, Color: colorGray, Top: 2},
			)),
		),
		row.New(20).Add(
			col.New(6),
			col.New(6).Add(
				text.New("_________________________", props.Text{
					Size: 9, Align: align.Center, Top: 10,
				}),
				text.New("Firma y aclaración del agente", props.Text{
					Size: 8, Align: align.Center, Top: 16, Color: colorGray,
				}),
			),
		),
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func taxLabel(tax string) string {
	switch tax {
	case entity.TaxGanancias:
		return "Ganancias"
	case entity.TaxIIBB:
		return "Ingresos Brutos"
	case entity.TaxIVA:
		return "IVA"
	case entity.TaxBienes:
		return "Bienes Personales"
	default:
		return "Otro"
	}
}

func conditionLabel(party *entity.Party, tax string) string {
	switch tax {
	case entity.TaxGanancias:
		if party.GananciasCondition == entity.GananciasInscripto {
			return "Inscripto"
		}
		return "No inscripto"
	case entity.TaxIIBB:
		switch party.IIBBCondition {
		case entity.IIBBConvenio:
			return "Convenio Multilateral"
		case entity.IIBBInscripto:
			return "Inscripto local"
		default:
			return "—"
		}
	case entity.TaxIVA:
		if party.IVACondition == entity.IVAResponsableInscripto {
			return "Responsable Inscripto"
		}
		return "—"
	default:
		return "—"
	}
}
