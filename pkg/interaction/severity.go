package interaction

import "strings"

// SeverityClass is the ordered severity label attached to a Record.
type SeverityClass int

const (
	SeverityUnknown SeverityClass = iota
	SeverityNegligible
	SeverityMinor
	SeverityMedium
	SeveritySevere
	SeverityCritical
)

var severityNames = map[SeverityClass]string{
	SeverityUnknown:    "Unknown",
	SeverityNegligible: "Negligible",
	SeverityMinor:      "Minor",
	SeverityMedium:     "Medium",
	SeveritySevere:     "Severe",
	SeverityCritical:   "Critical",
}

// ParseSeverityClass is case-insensitive; anything unrecognized is Unknown.
func ParseSeverityClass(s string) SeverityClass {
	s = strings.TrimSpace(s)
	for class, name := range severityNames {
		if strings.EqualFold(name, s) {
			return class
		}
	}
	return SeverityUnknown
}

func (c SeverityClass) String() string {
	if name, ok := severityNames[c]; ok {
		return name
	}
	return severityNames[SeverityUnknown]
}

// Significant reports whether a filtered query keeps records of this class.
func (c SeverityClass) Significant() bool {
	return c != SeverityUnknown && c != SeverityNegligible
}

func (c SeverityClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *SeverityClass) UnmarshalText(text []byte) error {
	*c = ParseSeverityClass(string(text))
	return nil
}
