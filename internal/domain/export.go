package domain

// ExportDocument is the external JSON interchange format produced and
// consumed by the settings UI. Records carry no owner tag; the importing
// side assigns them to the active partition.
type ExportDocument struct {
	Books      []Book `json:"books"`
	Notes      []Note `json:"notes"`
	ExportDate string `json:"exportDate"`
}
