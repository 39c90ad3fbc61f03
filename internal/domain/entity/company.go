package entity

import "time"

// Company representa la empresa (tenant) con sus designaciones de agente.
type Company struct {
	ID                        string
	Name                      string
	CUIT                      string
	Address                   string
	Subdivision               string // jurisdicción sede (código de provincia), requerida para IIBB
	GananciasWithholdingAgent bool   // agente de retención de Ganancias
	GananciasRegimeID         string // régimen de Ganancias por defecto de la empresa
	IIBBWithholdingAgent      bool   // agente de retención de Ingresos Brutos
	IIBBPerceptionAgent       bool   // agente de percepción de Ingresos Brutos
	Status                    string // active, suspended, inactive
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
