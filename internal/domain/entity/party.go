package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condición frente a Ganancias.
const (
	GananciasInscripto   = "in"
	GananciasNoInscripto = "ni"
)

// Condición frente al IVA.
const (
	IVAResponsableInscripto = "responsable_inscripto"
	IVAExento               = "exento"
	IVAMonotributo          = "monotributo"
	IVAConsumidorFinal      = "consumidor_final"
)

// Condición frente a Ingresos Brutos.
const (
	IIBBInscripto     = "in" // inscripto local
	IIBBConvenio      = "cm" // convenio multilateral
	IIBBExento        = "ex"
	IIBBSimplificado  = "rs" // régimen simplificado
	IIBBNoAlcanzado   = "na"
	IIBBConvenioSujet = "cs" // convenio sujeto a verificación
)

// Party representa un tercero (proveedor/cliente) con su situación fiscal.
type Party struct {
	ID                 string
	CompanyID          string
	Name               string
	CUIT               string
	DocumentTypeCode   int    // código AFIP de tipo de documento (80 = CUIT)
	GananciasCondition string // in | ni | vacío (no cargada)
	IVACondition       string
	IIBBCondition      string // in | cm | ex | rs | na | cs | vacío
	BienesInscripto    bool   // inscripto en Bienes Personales (código de condición SICORE)
	GananciasRegimeID  string // régimen de Ganancias por defecto del tercero
	IVARegimeID        string // régimen de IVA por defecto del tercero
	IIBBRegimes        []PartyIIBBRegime
	Exemptions         []PartyExemption
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Referencias de exención: unión etiquetada en lugar de una referencia
// polimórfica resuelta por prefijo de string.
const (
	ExemptionKindRetencion  = "retencion"
	ExemptionKindPercepcion = "percepcion"
)

// PartyExemption exención vigente hasta EndDate inclusive. Quita el régimen
// del conjunto aplicable por completo; no reduce la alícuota.
type PartyExemption struct {
	ID       string
	PartyID  string
	Kind     string // retencion | percepcion
	RegimeID string
	EndDate  time.Time
}

// Covers indica si la exención aplica al régimen indicado en la fecha dada.
func (e PartyExemption) Covers(kind, regimeID string, asOf time.Time) bool {
	return e.Kind == kind && e.RegimeID == regimeID && !e.EndDate.Before(asOf)
}

// PartyIIBBRegime jurisdicción de Ingresos Brutos del tercero, con alícuotas
// pactadas opcionales que prevalecen sobre las del régimen.
type PartyIIBBRegime struct {
	ID                  string
	PartyID             string
	WithholdingRegimeID string
	WithholdingRate     decimal.Decimal // 0 = usar la del régimen
	PerceptionRegimeID  string
	PerceptionRate      decimal.Decimal // 0 = usar la del régimen
}
