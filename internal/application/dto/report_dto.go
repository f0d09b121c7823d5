package dto

// ReportRequest parámetros de GET /api/reportes.
type ReportRequest struct {
	StartDate string `query:"fecha_inicio"` // YYYY-MM-DD, requerido
	Period    string `query:"periodo"`      // semanal | quincenal
	Format    string `query:"formato"`      // excel | pdf
}
