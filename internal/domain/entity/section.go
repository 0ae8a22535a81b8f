package entity

import "strings"

// Section identifica el área del restaurante que lleva su propio IPV.
type Section string

const (
	SectionSalon  Section = "salon"
	SectionCocina Section = "cocina"
)

// Sections devuelve las áreas soportadas en orden estable.
func Sections() []Section { return []Section{SectionSalon, SectionCocina} }

// ParseSection normaliza el nombre del área (acepta "salón" con tilde y mayúsculas).
func ParseSection(s string) (Section, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "salon", "salón":
		return SectionSalon, true
	case "cocina":
		return SectionCocina, true
	}
	return "", false
}
