package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sector is the startup activity sector.
type Sector string

const (
	SectorAI        Sector = "AI"
	SectorEcommerce Sector = "E-commerce"
	SectorTourisme  Sector = "Tourisme"
	SectorGennTech  Sector = "GennTech"
	SectorAgriTech  Sector = "AgriTech"
)

// Sectors lists every valid sector, in display order.
var Sectors = []Sector{SectorAI, SectorEcommerce, SectorTourisme, SectorGennTech, SectorAgriTech}

// ParseSector validates a sector string.
func ParseSector(s string) (Sector, error) {
	for _, sec := range Sectors {
		if Sector(s) == sec {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown sector %q", s)
}

// Startup represents a registered startup.
type Startup struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Sector      Sector    `json:"sector"`
	Description string    `json:"description"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
