// Package units converts scalar quantities between mass and volume units.
// Mass quantities normalize to grams, volume quantities to milliliters.
// Conversions across the two families fail unless explicitly bridged with the
// 1 g ~= 1 mL density approximation the callers document.
package units

import (
	"fmt"
	"strings"
)

// Family identifies the dimensional family of a unit.
type Family string

const (
	FamilyMass   Family = "mass"
	FamilyVolume Family = "volume"
)

// ConversionError reports a conversion that cannot be performed, with the
// offending units named for diagnostics.
type ConversionError struct {
	FromUnit string
	ToUnit   string
	Reason   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %q: %s", e.FromUnit, e.ToUnit, e.Reason)
}

type unitDef struct {
	family Family
	toBase float64
}

// Base units: g for mass, mL for volume.
var unitTable = map[string]unitDef{
	"mg": {family: FamilyMass, toBase: 0.001},
	"g":  {family: FamilyMass, toBase: 1},
	"kg": {family: FamilyMass, toBase: 1000},
	"oz": {family: FamilyMass, toBase: 28.349523125},
	"lb": {family: FamilyMass, toBase: 453.59237},

	"ml":    {family: FamilyVolume, toBase: 1},
	"l":     {family: FamilyVolume, toBase: 1000},
	"tsp":   {family: FamilyVolume, toBase: 4.92892159375},
	"tbsp":  {family: FamilyVolume, toBase: 14.78676478125},
	"cup":   {family: FamilyVolume, toBase: 236.5882365},
	"fl-oz": {family: FamilyVolume, toBase: 29.5735295625},
	"gal":   {family: FamilyVolume, toBase: 3785.41},
}

// Converter converts quantities between units using the static table above.
// The zero value is ready to use.
type Converter struct{}

// NewConverter returns a Converter.
func NewConverter() *Converter {
	return &Converter{}
}

func lookup(unit string) (unitDef, bool) {
	def, ok := unitTable[strings.ToLower(strings.TrimSpace(unit))]
	return def, ok
}

// FamilyOf reports the dimensional family of a unit.
func (c *Converter) FamilyOf(unit string) (Family, error) {
	def, ok := lookup(unit)
	if !ok {
		return "", &ConversionError{FromUnit: unit, ToUnit: unit, Reason: "unknown unit"}
	}
	return def.family, nil
}

// Convert converts quantity from one unit to another within the same family.
// It fails on unknown units and on cross-family conversions rather than
// silently coercing.
func (c *Converter) Convert(quantity float64, fromUnit, toUnit string) (float64, error) {
	from, ok := lookup(fromUnit)
	if !ok {
		return 0, &ConversionError{FromUnit: fromUnit, ToUnit: toUnit, Reason: "unknown source unit"}
	}
	to, ok := lookup(toUnit)
	if !ok {
		return 0, &ConversionError{FromUnit: fromUnit, ToUnit: toUnit, Reason: "unknown target unit"}
	}
	if from.family != to.family {
		return 0, &ConversionError{
			FromUnit: fromUnit,
			ToUnit:   toUnit,
			Reason:   fmt.Sprintf("incompatible unit families (%s vs %s)", from.family, to.family),
		}
	}
	return quantity * from.toBase / to.toBase, nil
}

// ConvertBridged converts like Convert but allows crossing the mass/volume
// boundary by treating 1 g as 1 mL. The bool result reports whether the bridge
// was taken, so callers can surface the approximation instead of hiding it.
func (c *Converter) ConvertBridged(quantity float64, fromUnit, toUnit string) (float64, bool, error) {
	converted, err := c.Convert(quantity, fromUnit, toUnit)
	if err == nil {
		return converted, false, nil
	}

	from, okFrom := lookup(fromUnit)
	to, okTo := lookup(toUnit)
	if !okFrom || !okTo || from.family == to.family {
		return 0, false, err
	}

	// 1 g ~= 1 mL: base quantities map across families unchanged.
	return quantity * from.toBase / to.toBase, true, nil
}

// ToBase normalizes a quantity to its family base unit (g or mL) and reports
// the family.
func (c *Converter) ToBase(quantity float64, unit string) (float64, Family, error) {
	def, ok := lookup(unit)
	if !ok {
		return 0, "", &ConversionError{FromUnit: unit, ToUnit: unit, Reason: "unknown unit"}
	}
	return quantity * def.toBase, def.family, nil
}
