// Package status resuelve codigos de estado a colores y etiquetas de UI.
//
// Hay dos familias de codigos: los tokens canonicos que guarda el backend
// (status-new, info-500, ...) y los textos heredados en ingles o neerlandes.
// Los tokens canonicos tienen color y etiqueta propios; los heredados solo
// tienen color. Cualquier otro valor cae en la categoria por defecto.
package status

import "chargecars-portal/internal/domain"

// Tokens canonicos.
const (
	StatusNew  domain.StatusCode = "status-new"
	Info500    domain.StatusCode = "info-500"
	Warning500 domain.StatusCode = "warning-500"
	Success500 domain.StatusCode = "success-500"
	Danger500  domain.StatusCode = "danger-500"
)

const (
	DefaultLabel = "Onbekend"
	DefaultHex   = "#6B7280"
	DefaultClass = "bg-gray-500 text-white"
)

type canonicalEntry struct {
	color domain.ColorCategory
	label string
	hex   string
	class string
}

var canonical = map[domain.StatusCode]canonicalEntry{
	StatusNew:  {domain.ColorPrimary, "Nieuw", "#2563EB", "bg-blue-600 text-white"},
	Info500:    {domain.ColorPrimary, "In behandeling", "#0EA5E9", "bg-sky-500 text-white"},
	Warning500: {domain.ColorWarning, "Wacht op klant", "#F59E0B", "bg-amber-500 text-white"},
	Success500: {domain.ColorSuccess, "Afgerond", "#10B981", "bg-emerald-500 text-white"},
	Danger500:  {domain.ColorDanger, "Geannuleerd", "#EF4444", "bg-red-500 text-white"},
}

// LegacyRule asocia un conjunto cerrado de literales a una categoria.
type LegacyRule struct {
	Color    domain.ColorCategory
	Literals []string
}

// DefaultLegacyRules se evalua en orden; la primera regla que contiene el
// literal exacto gana.
var DefaultLegacyRules = []LegacyRule{
	{Color: domain.ColorPrimary, Literals: []string{
		"in_progress", "open", "active", "in_uitvoering", "bezig", "actief",
		"In uitvoering", "Actief", "Open", "Nieuw",
	}},
	{Color: domain.ColorWarning, Literals: []string{
		"draft", "ready", "pending", "waiting", "on_hold", "paused", "concept",
		"klaar", "wachtend", "in_behandeling", "In behandeling", "Concept",
		"Draft", "Pending", "quote_draft", "offerte_concept", "Wachten op klant",
	}},
	{Color: domain.ColorSecondary, Literals: []string{
		"quote_sent", "sent", "verstuurd", "Offerte Concept", "partner_akkoord",
		"Partner Akkoord", "waiting_customer", "awaiting_approval", "submitted",
		"Ingepland", "Gepland",
	}},
	{Color: domain.ColorSuccess, Literals: []string{
		"completed", "approved", "delivered", "installed", "finished", "done",
		"voltooid", "goedgekeurd", "geleverd", "geïnstalleerd", "klant_akkoord",
		"customer_approved", "Voltooid", "Klant Akkoord", "Goedgekeurd",
		"Geleverd", "Completed", "Approved", "Afgerond",
	}},
	{Color: domain.ColorDanger, Literals: []string{
		"cancelled", "rejected", "failed", "expired", "error", "geannuleerd",
		"afgewezen", "gefaald", "verlopen", "Geannuleerd", "Afgewezen",
		"Cancelled", "Rejected", "Failed",
	}},
}

type compiledRule struct {
	color    domain.ColorCategory
	literals map[string]struct{}
}

// Resolver es inmutable una vez construido y seguro para uso concurrente.
type Resolver struct {
	rules []compiledRule
}

// NewResolver compila las reglas heredadas conservando su orden.
func NewResolver(rules []LegacyRule) *Resolver {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		set := make(map[string]struct{}, len(r.Literals))
		for _, lit := range r.Literals {
			set[lit] = struct{}{}
		}
		compiled = append(compiled, compiledRule{color: r.Color, literals: set})
	}
	return &Resolver{rules: compiled}
}

var defaultResolver = NewResolver(DefaultLegacyRules)

// Default devuelve el resolver con las tablas heredadas estandar.
func Default() *Resolver { return defaultResolver }

func (r *Resolver) ResolveColor(code domain.StatusCode) domain.ColorCategory {
	if e, ok := canonical[code]; ok {
		return e.color
	}
	for _, rule := range r.rules {
		if _, ok := rule.literals[string(code)]; ok {
			return rule.color
		}
	}
	return domain.ColorDefault
}

// ResolveLabel solo conoce los tokens canonicos. Un texto heredado con color
// propio sigue devolviendo DefaultLabel.
func (r *Resolver) ResolveLabel(code domain.StatusCode) string {
	if e, ok := canonical[code]; ok {
		return e.label
	}
	return DefaultLabel
}

func (r *Resolver) Hex(code domain.StatusCode) string {
	if e, ok := canonical[code]; ok {
		return e.hex
	}
	return DefaultHex
}

func (r *Resolver) Class(code domain.StatusCode) string {
	if e, ok := canonical[code]; ok {
		return e.class
	}
	return DefaultClass
}

func (r *Resolver) Badge(code domain.StatusCode) domain.StatusBadge {
	return domain.StatusBadge{
		Code:  code,
		Color: r.ResolveColor(code),
		Label: r.ResolveLabel(code),
		Hex:   r.Hex(code),
		Class: r.Class(code),
	}
}

// IsCanonical indica si el codigo es uno de los tokens canonicos.
func IsCanonical(code domain.StatusCode) bool {
	_, ok := canonical[code]
	return ok
}

// CanonicalCodes devuelve los tokens canonicos en orden estable.
func CanonicalCodes() []domain.StatusCode {
	return []domain.StatusCode{StatusNew, Info500, Warning500, Success500, Danger500}
}

// ResolveColor y ResolveLabel usan el resolver por defecto.
func ResolveColor(code domain.StatusCode) domain.ColorCategory {
	return defaultResolver.ResolveColor(code)
}

func ResolveLabel(code domain.StatusCode) string {
	return defaultResolver.ResolveLabel(code)
}

func BadgeFor(code domain.StatusCode) domain.StatusBadge {
	return defaultResolver.Badge(code)
}
