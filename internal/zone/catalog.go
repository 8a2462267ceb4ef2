package zone

import "github.com/coastwatch/broadcast-engine/internal/alert"

// catalog is the static coastal zone reference data. Populations are
// approximate coastal-belt figures, not full metropolitan counts.
var catalog = []alert.Zone{
	{
		ID:    "chennai-coast",
		Name:  "Chennai Coast",
		State: "Tamil Nadu",
		Coordinates: []alert.Coordinate{
			{Latitude: 13.1827, Longitude: 80.3070},
			{Latitude: 13.0827, Longitude: 80.3270},
			{Latitude: 12.9516, Longitude: 80.2710},
			{Latitude: 12.9516, Longitude: 80.1710},
			{Latitude: 13.1827, Longitude: 80.2070},
		},
		RadiusMeters:     25000,
		Population:       2100000,
		PrimaryLanguages: []alert.Language{alert.LanguageTamil, alert.LanguageEnglish, alert.LanguageHindi},
		Shelters:         []string{"Marina Community Hall", "Santhome Higher Secondary School", "Royapuram Relief Centre"},
		CellTowers:       []string{"CHN-CT-014", "CHN-CT-022", "CHN-CT-031"},
		Harbors:          []string{"Chennai Port", "Kasimedu Fishing Harbour"},
		Villages:         []string{"Urur Kuppam", "Nochikuppam", "Ennore Kuppam"},
	},
	{
		ID:    "mumbai-coast",
		Name:  "Mumbai Coast",
		State: "Maharashtra",
		Coordinates: []alert.Coordinate{
			{Latitude: 19.2183, Longitude: 72.7810},
			{Latitude: 19.0760, Longitude: 72.8277},
			{Latitude: 18.9067, Longitude: 72.8147},
			{Latitude: 18.9220, Longitude: 72.9100},
		},
		RadiusMeters:     30000,
		Population:       3400000,
		PrimaryLanguages: []alert.Language{alert.LanguageHindi, alert.LanguageEnglish},
		Shelters:         []string{"Worli Municipal School", "Colaba Civic Centre", "Versova Community Hall"},
		CellTowers:       []string{"BOM-CT-007", "BOM-CT-019", "BOM-CT-044"},
		Harbors:          []string{"Mumbai Port", "Sassoon Dock"},
		Villages:         []string{"Worli Koliwada", "Versova Koliwada", "Madh"},
	},
	{
		ID:    "visakhapatnam-coast",
		Name:  "Visakhapatnam Coast",
		State: "Andhra Pradesh",
		Coordinates: []alert.Coordinate{
			{Latitude: 17.7440, Longitude: 83.3200},
			{Latitude: 17.6868, Longitude: 83.2185},
			{Latitude: 17.6200, Longitude: 83.2000},
		},
		RadiusMeters:     20000,
		Population:       1200000,
		PrimaryLanguages: []alert.Language{alert.LanguageTelugu, alert.LanguageEnglish, alert.LanguageHindi},
		Shelters:         []string{"Beach Road Cyclone Shelter", "MVP Colony School"},
		CellTowers:       []string{"VTZ-CT-003", "VTZ-CT-011"},
		Harbors:          []string{"Visakhapatnam Port", "Fishing Harbour Jetty"},
		Villages:         []string{"Jalaripeta", "Pedajalaripeta"},
	},
	{
		ID:    "kochi-coast",
		Name:  "Kochi Coast",
		State: "Kerala",
		Coordinates: []alert.Coordinate{
			{Latitude: 10.0889, Longitude: 76.2400},
			{Latitude: 9.9312, Longitude: 76.2673},
			{Latitude: 9.8800, Longitude: 76.3000},
		},
		RadiusMeters:     18000,
		Population:       950000,
		PrimaryLanguages: []alert.Language{alert.LanguageMalayalam, alert.LanguageEnglish},
		Shelters:         []string{"Fort Kochi Relief Camp", "Vypin Community Hall"},
		CellTowers:       []string{"COK-CT-005", "COK-CT-012"},
		Harbors:          []string{"Cochin Port", "Munambam Harbour"},
		Villages:         []string{"Chellanam", "Kannamaly", "Vypin"},
	},
	{
		ID:    "kolkata-sundarbans",
		Name:  "Kolkata Sundarbans Belt",
		State: "West Bengal",
		Coordinates: []alert.Coordinate{
			{Latitude: 22.0000, Longitude: 88.4000},
			{Latitude: 21.8000, Longitude: 88.6000},
			{Latitude: 21.6000, Longitude: 88.8000},
		},
		RadiusMeters:     45000,
		Population:       1600000,
		PrimaryLanguages: []alert.Language{alert.LanguageBengali, alert.LanguageHindi, alert.LanguageEnglish},
		Shelters:         []string{"Gosaba Flood Shelter", "Sagar Island Cyclone Shelter", "Kakdwip School Shelter"},
		CellTowers:       []string{"CCU-CT-021", "CCU-CT-034"},
		Harbors:          []string{"Namkhana Jetty", "Kakdwip Harbour"},
		Villages:         []string{"Mousuni", "Ghoramara", "Gosaba"},
	},
	{
		ID:    "puri-coast",
		Name:  "Puri Coast",
		State: "Odisha",
		Coordinates: []alert.Coordinate{
			{Latitude: 19.8135, Longitude: 85.8312},
			{Latitude: 19.7900, Longitude: 85.8600},
			{Latitude: 19.7500, Longitude: 85.9000},
		},
		RadiusMeters:     15000,
		Population:       420000,
		PrimaryLanguages: []alert.Language{alert.LanguageHindi, alert.LanguageEnglish},
		Shelters:         []string{"Puri Multipurpose Cyclone Shelter", "Penthakata School"},
		CellTowers:       []string{"PUR-CT-002"},
		Harbors:          []string{"Penthakata Fish Landing"},
		Villages:         []string{"Penthakata", "Baliapanda"},
	},
}
