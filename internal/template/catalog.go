package template

import "github.com/coastwatch/broadcast-engine/internal/alert"

// catalog holds the pre-approved message bodies, keyed "{type}_{severity}".
// English is present for every declared key; translation coverage varies.
// Every body must stay within MaxMessageLength after substitution with
// realistic variable values (checked by tests, not by construction).
var catalog = map[string]map[alert.Language]string{
	"cyclone_warning": {
		alert.LanguageEnglish: "CYCLONE WARNING: Cyclone likely near {location}. Move to {shelter}. Stay away from the shore. Helpline {contact}.",
		alert.LanguageHindi:   "चक्रवात चेतावनी: {location} के पास चक्रवात संभव। {shelter} में शरण लें। समुद्र से दूर रहें। हेल्पलाइन {contact}",
		alert.LanguageTamil:   "புயல் எச்சரிக்கை: {location} அருகே புயல் வாய்ப்பு. {shelter} செல்லவும். கடலை விட்டு விலகவும். உதவி {contact}",
	},
	"cyclone_emergency": {
		alert.LanguageEnglish: "CYCLONE EMERGENCY: Severe cyclone approaching {location}. Evacuate to {shelter} now. Helpline {contact}.",
		alert.LanguageHindi:   "चक्रवात आपातकाल: {location} की ओर भीषण चक्रवात। तुरंत {shelter} जाएं। हेल्पलाइन {contact}",
		alert.LanguageTamil:   "புயல் அவசரம்: {location} நோக்கி கடும் புயல். உடனே {shelter} செல்லவும். உதவி {contact}",
	},
	"tsunami_warning": {
		alert.LanguageEnglish: "TSUNAMI WARNING: Possible tsunami near {location}. Leave beaches, move inland to {shelter}. Helpline {contact}.",
		alert.LanguageHindi:   "सुनामी चेतावनी: {location} के पास सुनामी संभव। तट छोड़ें, {shelter} जाएं। हेल्पलाइन {contact}",
		alert.LanguageTamil:   "சுனாமி எச்சரிக்கை: {location} அருகே சுனாமி வாய்ப்பு. கடற்கரையை விட்டு {shelter} செல்லவும். உதவி {contact}",
	},
	"tsunami_emergency": {
		alert.LanguageEnglish:   "TSUNAMI EMERGENCY: Leave {location} for high ground NOW. Do not return until all clear. Shelter: {shelter}. Helpline {contact}.",
		alert.LanguageHindi:     "सुनामी आपातकाल: {location} तुरंत छोड़ें, ऊंचे स्थान पर जाएं। {shelter} में शरण लें। हेल्पलाइन {contact}",
		alert.LanguageTamil:     "சுனாமி அவசரம்: {location} விட்டு உயரமான இடத்துக்கு உடனே செல்லவும். {shelter}. உதவி {contact}",
		alert.LanguageTelugu:    "సునామీ అత్యవసరం: {location} వదిలి ఎత్తైన ప్రదేశానికి వెళ్లండి. {shelter}. సహాయం {contact}",
		alert.LanguageBengali:   "সুনামি জরুরি: {location} ছেড়ে উঁচু জায়গায় যান। {shelter} আশ্রয় নিন। হেল্পলাইন {contact}",
		alert.LanguageMalayalam: "സുനാമി അടിയന്തരം: {location} വിട്ട് ഉയർന്ന സ്ഥലത്തേക്ക് പോകുക. {shelter}. സഹായം {contact}",
	},
	"storm_surge_warning": {
		alert.LanguageEnglish: "STORM SURGE WARNING: High waves expected at {location} around {time}. Avoid the seafront. Helpline {contact}.",
		alert.LanguageHindi:   "तूफानी लहर चेतावनी: {location} पर {time} के आसपास ऊंची लहरें। तट से दूर रहें। हेल्पलाइन {contact}",
	},
	"storm_surge_emergency": {
		alert.LanguageEnglish: "STORM SURGE EMERGENCY: Dangerous surge at {location}. Evacuate low areas to {shelter} now. Helpline {contact}.",
		alert.LanguageHindi:   "तूफानी लहर आपातकाल: {location} पर खतरनाक लहरें। निचले इलाके छोड़कर {shelter} जाएं। हेल्पलाइन {contact}",
	},
	"high_tide_warning": {
		alert.LanguageEnglish: "HIGH TIDE WARNING: Unusually high tide at {location} around {time}. Keep off beaches and jetties. Helpline {contact}.",
		alert.LanguageHindi:   "उच्च ज्वार चेतावनी: {location} पर {time} के आसपास ऊंचा ज्वार। तट और जेटी से दूर रहें। हेल्पलाइन {contact}",
	},
	"coastal_erosion_warning": {
		alert.LanguageEnglish: "COASTAL EROSION WARNING: Unstable shoreline at {location}. Keep clear of affected stretches. Helpline {contact}.",
	},
	"pollution_warning": {
		alert.LanguageEnglish: "POLLUTION WARNING: Contaminated water reported at {location}. Avoid bathing and fishing. Helpline {contact}.",
		alert.LanguageHindi:   "प्रदूषण चेतावनी: {location} का पानी दूषित। नहाने और मछली पकड़ने से बचें। हेल्पलाइन {contact}",
	},
	"oil_spill_warning": {
		alert.LanguageEnglish: "OIL SPILL WARNING: Oil slick near {location}. Avoid the water and report stranded wildlife. Helpline {contact}.",
	},
	"security_threat_emergency": {
		alert.LanguageEnglish: "SECURITY ALERT: Threat reported near {location}. Follow police instructions, avoid the area. Helpline {contact}.",
		alert.LanguageHindi:   "सुरक्षा अलर्ट: {location} के पास खतरे की सूचना। पुलिस के निर्देश मानें, क्षेत्र से दूर रहें। हेल्पलाइन {contact}",
	},
}
