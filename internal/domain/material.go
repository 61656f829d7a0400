package domain

import (
	"fmt"
	"strings"
)

type MaterialType string

const (
	MaterialPlastic MaterialType = "PLASTIC"
	MaterialPaper   MaterialType = "PAPER"
	MaterialMetal   MaterialType = "METAL"
	MaterialGlass   MaterialType = "GLASS"
	MaterialEWaste  MaterialType = "E_WASTE"
)

// AllMaterials lists the material types in display order
var AllMaterials = []MaterialType{
	MaterialPlastic,
	MaterialPaper,
	MaterialMetal,
	MaterialGlass,
	MaterialEWaste,
}

// defaultPricePerKg is the suggested buying price (INR/kg) pre-filled when a
// collector picks a material
var defaultPricePerKg = map[MaterialType]float64{
	MaterialPlastic: 12,
	MaterialPaper:   8,
	MaterialMetal:   45,
	MaterialGlass:   5,
	MaterialEWaste:  60,
}

// Valid reports whether m is one of the known material types
func (m MaterialType) Valid() bool {
	_, ok := defaultPricePerKg[m]
	return ok
}

// DefaultPricePerKg returns the pre-filled price for m, or 0 for unknown types
func (m MaterialType) DefaultPricePerKg() float64 {
	return defaultPricePerKg[m]
}

// ParseMaterialType accepts the wire name case-insensitively
func ParseMaterialType(s string) (MaterialType, error) {
	m := MaterialType(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown material type %q", s)
	}
	return m, nil
}
