package planning

import (
	"time"

	"planboard/internal/model"
)

// The planning site encodes event semantics two ways: a color class on the
// cell itself, or a short code as the cell label. Both vocabularies are
// closed; keeping them as package-level tables makes the mapping auditable
// in one place.

// colorTypes maps cell class tokens to event types. First matching token
// in document order wins.
var colorTypes = map[string]model.EventType{
	"teletravail":        model.TypeTelework,
	"ferie":              model.TypeHoliday,
	"jour_ferie":         model.TypeHoliday,
	"reunion":            model.TypeMeeting,
	"rtt":                model.TypeRTE,
	"conges":             model.TypeVacation,
	"conges_payes":       model.TypePaidLeave,
	"astreinte":          model.TypeDuty,
	"preventif_meditech": model.TypePreventiveMeditech,
	"preventif":          model.TypePreventiveMeditech,
	"site":               model.TypeOnsite,
	"absence":            model.TypeLeave,
	"maladie":            model.TypeSickLeave,
	"formation":          model.TypeTraining,
	"telemaintenance":    model.TypeTelemaintenance,
}

// holidayColors marks which color classes also raise the holiday flag.
var holidayColors = map[string]bool{
	"ferie":      true,
	"jour_ferie": true,
}

// contentTypes maps cell label codes (verbatim, as printed on the planning)
// to event types. Consulted only when no color class matched.
var contentTypes = map[string]model.EventType{
	"TT":   model.TypeTelework,
	"TTR":  model.TypeTelework,
	"TLT":  model.TypeTelework,
	"CP":   model.TypePaidLeave,
	"CA":   model.TypeVacation,
	"CONG": model.TypeVacation,
	"RTT":  model.TypeRTE,
	"F":    model.TypeHoliday,
	"JF":   model.TypeHoliday,
	"FOR":  model.TypeTraining,
	"FORM": model.TypeTraining,
	"TM":   model.TypeTelemaintenance,
	"TLM":  model.TypeTelemaintenance,
	"AST":  model.TypeDuty,
	"REU":  model.TypeMeeting,
	"RDV":  model.TypeMeeting,
	"AM":   model.TypeSickLeave,
	"MAL":  model.TypeSickLeave,
	"ABS":  model.TypeLeave,
	"SITE": model.TypeOnsite,
	"PM":   model.TypePreventiveMeditech,
	"PREV": model.TypePreventiveMeditech,
}

// contentDenylist lists context-menu artifacts that the shared menu markup
// occasionally leaks into cell labels. They are noise, never content.
var contentDenylist = map[string]bool{
	"Copier":  true,
	"Couper":  true,
	"Coller":  true,
	"Annuler": true,
}

// frenchMonths maps the month names printed by the planning site (lowercase,
// both accented and plain spellings) to calendar months.
var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"fevrier":   time.February,
	"février":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"aout":      time.August,
	"août":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
	"decembre":  time.December,
	"décembre":  time.December,
}

// weekdayOrdinals maps weekday abbreviations (lowercase) to an ordinal with
// 0=Monday .. 6=Sunday. The site is inconsistent about abbreviation length,
// so 1-, 2- and 3-letter variants are all listed ("m" alone is ambiguous
// between mardi and mercredi and is deliberately absent).
var weekdayOrdinals = map[string]int{
	"lun": 0, "lu": 0, "l": 0,
	"mar": 1, "ma": 1,
	"mer": 2, "me": 2,
	"jeu": 3, "je": 3, "j": 3,
	"ven": 4, "ve": 4, "v": 4,
	"sam": 5, "sa": 5, "s": 5,
	"dim": 6, "di": 6, "d": 6,
}

// weekdayNames gives the full French weekday name for an ordinal
// (0=Monday), used in consistency report messages.
var weekdayNames = [7]string{
	"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche",
}
