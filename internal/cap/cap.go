// Package cap maps internal alerts to Common Alerting Protocol 1.2
// documents for interoperability with standard emergency-alerting
// infrastructure.
package cap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/coastwatch/broadcast-engine/internal/alert"
)

// DefaultSender identifies this system in exported documents
const DefaultSender = "broadcast-engine@coastwatch.in"

// Alert is a CAP 1.2 alert document
type Alert struct {
	XMLName    xml.Name `xml:"urn:oasis:names:tc:emergency:cap:1.2 alert" json:"-"`
	Identifier string   `xml:"identifier" json:"identifier"`
	Sender     string   `xml:"sender" json:"sender"`
	Sent       string   `xml:"sent" json:"sent"`
	Status     string   `xml:"status" json:"status"`
	MsgType    string   `xml:"msgType" json:"msgType"`
	Scope      string   `xml:"scope" json:"scope"`
	Info       []Info   `xml:"info" json:"info"`
}

// Info is one per-language CAP info block
type Info struct {
	Language    string `xml:"language" json:"language"`
	Category    string `xml:"category" json:"category"`
	Event       string `xml:"event" json:"event"`
	Urgency     string `xml:"urgency" json:"urgency"`
	Severity    string `xml:"severity" json:"severity"`
	Certainty   string `xml:"certainty" json:"certainty"`
	Headline    string `xml:"headline" json:"headline"`
	Description string `xml:"description" json:"description"`
	Instruction string `xml:"instruction,omitempty" json:"instruction,omitempty"`
	Areas       []Area `xml:"area" json:"areas"`
}

// Area is a CAP area block with a flattened polygon
type Area struct {
	AreaDesc string `xml:"areaDesc" json:"areaDesc"`
	Polygon  string `xml:"polygon,omitempty" json:"polygon,omitempty"`
}

// categories maps hazard types to CAP categories. Unmapped types degrade
// to Other so new alert types stay exportable.
var categories = map[alert.Type]string{
	alert.TypeCyclone:        "Met",
	alert.TypeTsunami:        "Geo",
	alert.TypeStormSurge:     "Met",
	alert.TypeHighTide:       "Met",
	alert.TypeCoastalErosion: "Geo",
	alert.TypePollution:      "Env",
	alert.TypeOilSpill:       "Env",
	alert.TypeIllegalFishing: "Security",
	alert.TypeSmuggling:      "Security",
	alert.TypeSecurityThreat: "Security",
	alert.TypeAllClear:       "Safety",
}

// events maps hazard types to human-readable CAP event names
var events = map[alert.Type]string{
	alert.TypeCyclone:        "Cyclone",
	alert.TypeTsunami:        "Tsunami",
	alert.TypeStormSurge:     "Storm Surge",
	alert.TypeHighTide:       "High Tide",
	alert.TypeCoastalErosion: "Coastal Erosion",
	alert.TypePollution:      "Coastal Pollution",
	alert.TypeOilSpill:       "Oil Spill",
	alert.TypeIllegalFishing: "Illegal Fishing Activity",
	alert.TypeSmuggling:      "Smuggling Activity",
	alert.TypeSecurityThreat: "Security Threat",
	alert.TypeAllClear:       "All Clear",
}

var languageCodes = map[alert.Language]string{
	alert.LanguageEnglish:   "en-IN",
	alert.LanguageHindi:     "hi-IN",
	alert.LanguageTamil:     "ta-IN",
	alert.LanguageTelugu:    "te-IN",
	alert.LanguageBengali:   "bn-IN",
	alert.LanguageMalayalam: "ml-IN",
}

// Category returns the CAP category for a hazard type
func Category(t alert.Type) string {
	if c, ok := categories[t]; ok {
		return c
	}
	return "Other"
}

// CAPUrgency maps internal urgency to CAP urgency
func CAPUrgency(u alert.Urgency) string {
	switch u {
	case alert.UrgencyImmediate:
		return "Immediate"
	case alert.UrgencyHigh:
		return "Expected"
	case alert.UrgencyMedium, alert.UrgencyLow:
		return "Future"
	}
	return "Unknown"
}

// CAPSeverity maps internal severity to CAP severity
func CAPSeverity(s alert.Severity) string {
	switch s {
	case alert.SeverityEmergency:
		return "Extreme"
	case alert.SeverityWarning:
		return "Severe"
	case alert.SeverityInfo:
		return "Minor"
	}
	return "Unknown"
}

// Generate builds a CAP 1.2 document from an internal alert: one info
// block per target language, one area block per affected zone. Certainty
// is fixed to Likely; the source system does not model it.
func Generate(a *alert.Alert) *Alert {
	doc := &Alert{
		Identifier: a.ID,
		Sender:     DefaultSender,
		Sent:       a.CreatedAt.Format(time.RFC3339),
		Status:     capStatus(a.Status),
		MsgType:    capMsgType(a.Type),
		Scope:      "Public",
	}

	areas := make([]Area, 0, len(a.AffectedZones))
	for _, z := range a.AffectedZones {
		areas = append(areas, Area{
			AreaDesc: fmt.Sprintf("%s, %s", z.Name, z.State),
			Polygon:  flattenPolygon(z.Coordinates),
		})
	}

	for _, lang := range a.Languages {
		info := Info{
			Language:    languageCode(lang),
			Category:    Category(a.Type),
			Event:       eventName(a.Type),
			Urgency:     CAPUrgency(a.UrgencyLevel),
			Severity:    CAPSeverity(a.Severity),
			Certainty:   "Likely",
			Headline:    a.Title,
			Description: a.Description,
			Instruction: a.MessageTemplates[lang],
			Areas:       areas,
		}
		doc.Info = append(doc.Info, info)
	}

	return doc
}

func capStatus(s alert.Status) string {
	if s == alert.StatusDraft {
		return "Draft"
	}
	return "Actual"
}

func capMsgType(t alert.Type) string {
	if t == alert.TypeAllClear {
		return "Cancel"
	}
	return "Alert"
}

func eventName(t alert.Type) string {
	if name, ok := events[t]; ok {
		return name
	}
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func languageCode(l alert.Language) string {
	if code, ok := languageCodes[l]; ok {
		return code
	}
	return "en-IN"
}

// flattenPolygon serializes coordinates as "lat,lon lat,lon ..."
func flattenPolygon(coords []alert.Coordinate) string {
	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts, fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude))
	}
	return strings.Join(parts, " ")
}
