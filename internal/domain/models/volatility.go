package models

import "time"

// VolatilityPoint is one entry of a rolling volatility series. Value is nil when missing.
type VolatilityPoint struct {
	Date  time.Time
	Value *float64
}

// SectorVolatility is derived per sector and recomputed on demand.
type SectorVolatility struct {
	Sector                 string
	CoefficientOfVariation Float
	RollingVolatility      []VolatilityPoint
}

// SectorScore is one row of a ranking table.
type SectorScore struct {
	Sector                 string `json:"sector"`
	CoefficientOfVariation Float  `json:"coefficient_of_variation"`
}

// VolatilitySummary holds the three ranking views over all sectors.
type VolatilitySummary struct {
	Ranking []SectorScore `json:"ranking"` // descending by CV
	Lowest  []SectorScore `json:"lowest"`  // ascending prefix
	Highest []SectorScore `json:"highest"` // descending prefix
}
