package dto

// SICOREExportRequest parámetros de POST /api/sicore/export.
type SICOREExportRequest struct {
	From      string   `json:"from"`                 // YYYY-MM-DD
	To        string   `json:"to"`                   // YYYY-MM-DD
	CSVFormat bool     `json:"csv_format,omitempty"` // ';' como separador en lugar de ancho fijo
	RegimeIDs []string `json:"regime_ids,omitempty"` // regímenes a incluir; vacío = todos los de Ganancias e IVA
}

// SICOREExportResponse metadatos del archivo generado; el contenido va
// aparte (descarga) codificado en ISO 8859-1.
type SICOREExportResponse struct {
	Filename string   `json:"filename"`
	Lines    int      `json:"lines"`
	Skipped  []string `json:"skipped,omitempty"` // diagnósticos de retenciones quitadas
}
