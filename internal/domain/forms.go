package domain

// DoseForms is the closed set of accepted medication forms. It is passed to the
// validation layer as configuration rather than consulted as shared state.
var DoseForms = []string{"tablet", "capsule", "vial", "syrup", "cream"}

// ValidDoseForm reports whether form is one of the accepted dose forms.
func ValidDoseForm(form string, accepted []string) bool {
	for _, f := range accepted {
		if f == form {
			return true
		}
	}
	return false
}
