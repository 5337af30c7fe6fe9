package domain

import "fmt"

// Duration is how long a recipe takes
type Duration int

const (
	DurationShort Duration = iota
	DurationMedium
	DurationLong
	DurationReallyLong
)

var durationNames = [...]string{
	DurationShort:      "short",
	DurationMedium:     "medium",
	DurationLong:       "long",
	DurationReallyLong: "really long",
}

// archived Time values
var durationImports = map[string]Duration{
	"Short":       DurationShort,
	"Medium":      DurationMedium,
	"Long":        DurationLong,
	"Really Long": DurationReallyLong,
}

// Durations lists every duration in order
func Durations() []Duration {
	return []Duration{DurationShort, DurationMedium, DurationLong, DurationReallyLong}
}

// ImportDuration maps an archived Time string to a Duration
func ImportDuration(s string) (Duration, bool) {
	d, ok := durationImports[s]
	return d, ok
}

func (d Duration) String() string {
	if d < 0 || int(d) >= len(durationNames) {
		return fmt.Sprintf("Duration(%d)", int(d))
	}
	return durationNames[d]
}

// ParseDuration is the inverse of String
func ParseDuration(s string) (Duration, error) {
	for i, name := range durationNames {
		if name == s {
			return Duration(i), nil
		}
	}
	return 0, fmt.Errorf("unknown duration %q", s)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Measurement is the unit of an ingredient quantity. MeasurementNone means
// the quantity is a plain count.
type Measurement int

const (
	MeasurementNone Measurement = iota
	MeasurementCups
	MeasurementFluidOunces
	MeasurementPounds
	MeasurementOunces
	MeasurementTablespoons
	MeasurementTeaspoons
)

var measurementNames = [...]string{
	MeasurementNone:        "",
	MeasurementCups:        "cups",
	MeasurementFluidOunces: "fl. oz.",
	MeasurementPounds:      "lbs.",
	MeasurementOunces:      "oz.",
	MeasurementTablespoons: "tbsp.",
	MeasurementTeaspoons:   "tsp.",
}

// archived Measurement abbreviations
var measurementImports = map[string]Measurement{
	"c.":      MeasurementCups,
	"fl. oz.": MeasurementFluidOunces,
	"lb.":     MeasurementPounds,
	"oz.":     MeasurementOunces,
	"tbsp.":   MeasurementTablespoons,
	"tsp.":    MeasurementTeaspoons,
}

// Measurements lists every unit, MeasurementNone excluded
func Measurements() []Measurement {
	return []Measurement{
		MeasurementCups,
		MeasurementFluidOunces,
		MeasurementPounds,
		MeasurementOunces,
		MeasurementTablespoons,
		MeasurementTeaspoons,
	}
}

// ImportMeasurement maps an archived abbreviation to a Measurement
func ImportMeasurement(s string) (Measurement, bool) {
	m, ok := measurementImports[s]
	return m, ok
}

func (m Measurement) String() string {
	if m < 0 || int(m) >= len(measurementNames) {
		return fmt.Sprintf("Measurement(%d)", int(m))
	}
	return measurementNames[m]
}

// ParseMeasurement is the inverse of String
func ParseMeasurement(s string) (Measurement, error) {
	for i, name := range measurementNames {
		if name == s {
			return Measurement(i), nil
		}
	}
	return 0, fmt.Errorf("unknown measurement %q", s)
}

func (m Measurement) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Measurement) UnmarshalText(b []byte) error {
	v, err := ParseMeasurement(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
