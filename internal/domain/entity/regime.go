package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de régimen (sentido de la retención).
const (
	RegimeKindEfectuada = "efectuada" // retención practicada por la empresa al pagar
	RegimeKindSoportada = "soportada" // retención sufrida por la empresa al cobrar
)

// Familias de impuesto cubiertas por los regímenes.
const (
	TaxGanancias = "gana" // Impuesto a las Ganancias
	TaxIIBB      = "iibb" // Ingresos Brutos (provincial)
	TaxIVA       = "iva"  // Impuesto al Valor Agregado
	TaxBienes    = "bien" // Bienes Personales
	TaxOther     = "otro"
)

// Regime describe un régimen de retención/percepción: identidad, jurisdicción,
// alícuotas planas, mínimos y escala opcional. El motor lo consulta de solo lectura.
type Regime struct {
	ID                  string
	CompanyID           string
	Name                string
	Kind                string // efectuada | soportada
	Tax                 string // gana | iibb | iva | bien | otro
	Subdivision         string // jurisdicción IIBB (código de provincia); vacío para regímenes nacionales
	AccountID           string // cuenta contable donde se imputa
	RegimeCode          int    // código de régimen SICORE (3 dígitos)
	MinimumNonTaxable   decimal.Decimal
	MinimumWithholdable decimal.Decimal
	RateRegistered      decimal.Decimal // alícuota % para inscriptos
	RateNonRegistered   decimal.Decimal // alícuota % para no inscriptos
	Scales              []ScaleTier     // ordenadas por StartAmount ascendente; vacío = alícuota plana
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasScales indica si el régimen resuelve alícuota por escala.
func (r *Regime) HasScales() bool { return len(r.Scales) > 0 }

// ScaleTier tramo de escala: [StartAmount, EndAmount] inclusive, con alícuota,
// monto fijo aditivo y mínimo no imponible propios del tramo.
type ScaleTier struct {
	ID                string
	RegimeID          string
	StartAmount       decimal.Decimal
	EndAmount         decimal.Decimal
	Rate              decimal.Decimal
	FixedAmount       decimal.Decimal
	MinimumNonTaxable decimal.Decimal
}

// RegimeSequence secuencia de numeración de certificados, resuelta por (régimen, empresa).
// Modelada como mapeo explícito en lugar de un multivalue dinámico.
type RegimeSequence struct {
	ID         string
	RegimeID   string
	CompanyID  string
	Prefix     string // ej. "RET-"
	NextNumber int64
	Padding    int // ancho de cero-relleno del número
}
