// Package template resolves pre-translated civil defence message templates
// and substitutes runtime variables. Message wording is static and
// pre-approved; runtime work is limited to variable substitution so the
// failure surface during an actual emergency stays minimal.
package template

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/coastwatch/broadcast-engine/internal/alert"
)

// MaxMessageLength is the single-segment SMS budget, in characters.
// It is advisory for non-SMS channels but enforced uniformly.
const MaxMessageLength = 160

// Variables are the placeholder names every template may reference
var Variables = []string{"location", "shelter", "time", "contact"}

// genericTemplate is the last resort when no catalog key matches. A missing
// template is a degraded-quality event, not an error.
const genericTemplate = "ALERT: Emergency reported at {location}. Follow instructions from local authorities. Helpline {contact}."

// Engine resolves templates from the static catalog
type Engine struct {
	logger  *slog.Logger
	catalog map[string]map[alert.Language]string
}

// NewEngine creates an engine over the built-in template catalog
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger, catalog: catalog}
}

func catalogKey(t alert.Type, s alert.Severity) string {
	return fmt.Sprintf("%s_%s", t, s)
}

// Resolve returns the template for (type, severity, language). Missing
// languages fall back to English for the same key; entirely missing keys
// fall back to the generic template. Resolution never fails.
func (e *Engine) Resolve(t alert.Type, s alert.Severity, lang alert.Language) string {
	byLang, ok := e.catalog[catalogKey(t, s)]
	if !ok {
		e.logger.Debug("No template for type/severity, using generic fallback",
			"type", t, "severity", s)
		return genericTemplate
	}
	if tpl, ok := byLang[lang]; ok {
		return tpl
	}
	if tpl, ok := byLang[alert.LanguageEnglish]; ok {
		e.logger.Debug("No translation, falling back to English",
			"type", t, "severity", s, "language", lang)
		return tpl
	}
	return genericTemplate
}

// Substitute replaces every {name} occurrence with the value from vars.
// Placeholders without a matching variable are left verbatim.
func Substitute(tpl string, vars map[string]string) string {
	for name, value := range vars {
		tpl = strings.ReplaceAll(tpl, "{"+name+"}", value)
	}
	return tpl
}

// ValidateLength reports whether msg fits the single-segment SMS budget.
// Counted in runes, not bytes: Devanagari and Tamil translations would
// otherwise fail on byte length alone.
func ValidateLength(msg string) bool {
	return utf8.RuneCountInString(msg) <= MaxMessageLength
}

// Keys returns the declared catalog keys in sorted order
func (e *Engine) Keys() []string {
	keys := make([]string, 0, len(e.catalog))
	for k := range e.catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Translations returns the language->template map for a catalog key
func (e *Engine) Translations(key string) (map[alert.Language]string, bool) {
	byLang, ok := e.catalog[key]
	return byLang, ok
}
