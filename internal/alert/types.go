package alert

import (
	"math"
	"time"
)

// Type classifies the hazard an alert describes
type Type string

const (
	TypeCyclone        Type = "cyclone"
	TypeTsunami        Type = "tsunami"
	TypeStormSurge     Type = "storm_surge"
	TypeHighTide       Type = "high_tide"
	TypeCoastalErosion Type = "coastal_erosion"
	TypePollution      Type = "pollution"
	TypeOilSpill       Type = "oil_spill"
	TypeIllegalFishing Type = "illegal_fishing"
	TypeSmuggling      Type = "smuggling"
	TypeSecurityThreat Type = "security_threat"
	TypeAllClear       Type = "all_clear"
)

// Types lists every hazard classification in declaration order
var Types = []Type{
	TypeCyclone, TypeTsunami, TypeStormSurge, TypeHighTide,
	TypeCoastalErosion, TypePollution, TypeOilSpill, TypeIllegalFishing,
	TypeSmuggling, TypeSecurityThreat, TypeAllClear,
}

// Valid reports whether t is a declared hazard type
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Severity drives template selection and UI emphasis
type Severity string

const (
	SeverityInfo      Severity = "info"
	SeverityWarning   Severity = "warning"
	SeverityEmergency Severity = "emergency"
)

// Valid reports whether s is a declared severity
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityEmergency:
		return true
	}
	return false
}

// Urgency is independent of severity and used for triage and CAP mapping
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyHigh      Urgency = "high"
	UrgencyMedium    Urgency = "medium"
	UrgencyLow       Urgency = "low"
)

// Channel is a delivery medium for an alert
type Channel string

const (
	ChannelSMS           Channel = "sms"
	ChannelCellBroadcast Channel = "cell_broadcast"
	ChannelSatellite     Channel = "satellite"
	ChannelRadio         Channel = "radio"
	ChannelSiren         Channel = "siren"
)

// Channels lists every delivery medium
var Channels = []Channel{
	ChannelSMS, ChannelCellBroadcast, ChannelSatellite, ChannelRadio, ChannelSiren,
}

// Valid reports whether c is a declared channel
func (c Channel) Valid() bool {
	for _, known := range Channels {
		if c == known {
			return true
		}
	}
	return false
}

// Language identifies a message translation
type Language string

const (
	LanguageEnglish   Language = "english"
	LanguageHindi     Language = "hindi"
	LanguageTamil     Language = "tamil"
	LanguageTelugu    Language = "telugu"
	LanguageBengali   Language = "bengali"
	LanguageMalayalam Language = "malayalam"
)

// Languages lists every supported message language
var Languages = []Language{
	LanguageEnglish, LanguageHindi, LanguageTamil,
	LanguageTelugu, LanguageBengali, LanguageMalayalam,
}

// DefaultLanguages is used when the caller does not target any language
// and as the suggestion for unmapped zones.
var DefaultLanguages = []Language{LanguageEnglish, LanguageHindi}

// Coordinate is a single polygon vertex
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Zone is a geographically and demographically described broadcast target.
// Alerts snapshot zones by value at creation time so later catalog changes
// do not retroactively alter an alert's targeting.
type Zone struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	State            string       `json:"state"`
	Coordinates      []Coordinate `json:"coordinates"`
	RadiusMeters     int          `json:"radius_meters"`
	Population       int          `json:"population"`
	PrimaryLanguages []Language   `json:"primary_languages"`
	Shelters         []string     `json:"shelters"`
	CellTowers       []string     `json:"cell_towers"`
	Harbors          []string     `json:"harbors"`
	Villages         []string     `json:"villages"`
}

// PhonePenetration is the assumed fraction of a zone's population
// reachable by phone-based channels.
const PhonePenetration = 0.8

// Reach returns the estimated number of reachable people in the zone.
func (z Zone) Reach() int {
	return int(math.Floor(float64(z.Population) * PhonePenetration))
}

// EstimateReach sums the per-zone reach over a set of zones.
func EstimateReach(zones []Zone) int {
	total := 0
	for _, z := range zones {
		total += z.Reach()
	}
	return total
}

// ChannelDelivery is the per-channel slice of the delivery breakdown
type ChannelDelivery struct {
	Sent      int `json:"sent"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

// DeliveryStatus aggregates delivery counters for an alert.
// Invariant: Total == Delivered + Failed + Pending.
type DeliveryStatus struct {
	Total     int                         `json:"total"`
	Sent      int                         `json:"sent"`
	Delivered int                         `json:"delivered"`
	Failed    int                         `json:"failed"`
	Pending   int                         `json:"pending"`
	Channels  map[Channel]ChannelDelivery `json:"channels"`
}

// Alert is the central civil-defence broadcast record
type Alert struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Type              Type                `json:"type"`
	Severity          Severity            `json:"severity"`
	UrgencyLevel      Urgency             `json:"urgency_level"`
	AffectedZones     []Zone              `json:"affected_zones"`
	Languages         []Language          `json:"languages"`
	MessageTemplates  map[Language]string `json:"message_templates"`
	BroadcastChannels []Channel           `json:"broadcast_channels"`
	ScheduledTime     *time.Time          `json:"scheduled_time,omitempty"`
	ExpiryTime        *time.Time          `json:"expiry_time,omitempty"`
	Status            Status              `json:"status"`
	DeliveryStatus    DeliveryStatus      `json:"delivery_status"`
	EstimatedReach    int                 `json:"estimated_reach"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	CreatedBy         string              `json:"created_by"`
}

// LogStatus classifies the outcome of one simulated send
type LogStatus string

const (
	LogStatusSuccess LogStatus = "success"
	LogStatusPartial LogStatus = "partial"
	LogStatusFailed  LogStatus = "failed"
)

// LogEntry is an immutable audit record of one simulated send attempt to
// one zone, in one language, over one channel.
type LogEntry struct {
	ID             string    `json:"id"`
	AlertID        string    `json:"alert_id"`
	Timestamp      time.Time `json:"timestamp"`
	Channel        Channel   `json:"channel"`
	ZoneName       string    `json:"zone_name"`
	Language       Language  `json:"language"`
	Message        string    `json:"message"`
	RecipientCount int       `json:"recipient_count"`
	DeliveryRate   float64   `json:"delivery_rate"`
	Status         LogStatus `json:"status"`
}
