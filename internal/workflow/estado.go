package workflow

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Estado is the canonical valuation state.
type Estado string

const (
	Pendiente  Estado = "pendiente"
	EnCurso    Estado = "en_curso"
	Finalizado Estado = "finalizado"
)

// Valido reports whether e is one of the three canonical states.
func (e Estado) Valido() bool {
	switch e {
	case Pendiente, EnCurso, Finalizado:
		return true
	}
	return false
}

var sinonimos = map[string]Estado{
	"pendiente":   Pendiente,
	"nuevo":       Pendiente,
	"nueva":       Pendiente,
	"en_curso":    EnCurso,
	"en curso":    EnCurso,
	"en-curso":    EnCurso,
	"encurso":     EnCurso,
	"en proceso":  EnCurso,
	"en progreso": EnCurso,
	"iniciado":    EnCurso,
	"iniciada":    EnCurso,
	"asignado":    EnCurso,
	"asignada":    EnCurso,
	"finalizado":  Finalizado,
	"finalizada":  Finalizado,
	"completado":  Finalizado,
	"completada":  Finalizado,
	"terminado":   Finalizado,
	"terminada":   Finalizado,
	"cerrado":     Finalizado,
	"cerrada":     Finalizado,
}

// Normalizar maps a free-text state to its canonical value. Case,
// surrounding whitespace and diacritics are ignored; anything unrecognized
// is Pendiente.
func Normalizar(raw string) Estado {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Pendiente
	}
	s = strings.Join(strings.Fields(quitarTildes(s)), " ")
	if e, ok := sinonimos[s]; ok {
		return e
	}
	return Pendiente
}

func quitarTildes(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
