package models

import "time"

// ViewRequest is the query of a stateless render. Missing dates mean the data bounds.
type ViewRequest struct {
	Sectors []string `query:"sectors"`
	All     bool     `query:"all"`
	Start   string   `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End     string   `query:"end" validate:"omitempty,datetime=2006-01-02"`
	Raw     bool     `query:"raw"`
}

// SectorsResponse lists the sector labels and the data span.
type SectorsResponse struct {
	Sectors []string  `json:"sectors"`
	MinDate time.Time `json:"min_date"`
	MaxDate time.Time `json:"max_date"`
	Rows    int       `json:"rows"`
}
