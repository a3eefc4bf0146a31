package weather

// Group classifies WMO codes into coarse buckets used for backgrounds.
type Group string

const (
	GroupClear  Group = "clear"
	GroupClouds Group = "clouds"
	GroupRain   Group = "rain"
	GroupSnow   Group = "snow"
)

// CodeInfo describes one WMO weather interpretation code.
type CodeInfo struct {
	Text  string `json:"text"`
	Icon  string `json:"icon"`
	Group Group  `json:"group"`
}

// weatherCodes maps WMO codes to Latvian descriptions and icons.
var weatherCodes = map[int]CodeInfo{
	0:  {Text: "Skaidrs", Icon: "☀️", Group: GroupClear},
	1:  {Text: "Gandrīz skaidrs", Icon: "🌤️", Group: GroupClear},
	2:  {Text: "Daļēji mākoņains", Icon: "⛅", Group: GroupClouds},
	3:  {Text: "Mākoņains", Icon: "☁️", Group: GroupClouds},
	45: {Text: "Migla", Icon: "🌫️", Group: GroupClouds},
	48: {Text: "Sarmas migla", Icon: "🌫️", Group: GroupClouds},
	51: {Text: "Viegls smalks lietus", Icon: "🌦️", Group: GroupRain},
	53: {Text: "Mērens smalks lietus", Icon: "🌦️", Group: GroupRain},
	55: {Text: "Stiprs smalks lietus", Icon: "🌧️", Group: GroupRain},
	56: {Text: "Viegls ledus lietus", Icon: "🌨️", Group: GroupRain},
	57: {Text: "Stiprs ledus lietus", Icon: "🌨️", Group: GroupRain},
	61: {Text: "Neliels lietus", Icon: "🌦️", Group: GroupRain},
	63: {Text: "Mērens lietus", Icon: "🌧️", Group: GroupRain},
	65: {Text: "Stiprs lietus", Icon: "🌧️", Group: GroupRain},
	66: {Text: "Viegls ledus lietus", Icon: "🌨️", Group: GroupRain},
	67: {Text: "Stiprs ledus lietus", Icon: "🌨️", Group: GroupRain},
	71: {Text: "Neliels sniegs", Icon: "🌨️", Group: GroupSnow},
	73: {Text: "Mērens sniegs", Icon: "❄️", Group: GroupSnow},
	75: {Text: "Stiprs sniegs", Icon: "❄️", Group: GroupSnow},
	77: {Text: "Sniega grauds", Icon: "🌨️", Group: GroupSnow},
	80: {Text: "Nelielas lietusgāzes", Icon: "🌦️", Group: GroupRain},
	81: {Text: "Mērenas lietusgāzes", Icon: "🌧️", Group: GroupRain},
	82: {Text: "Stipras lietusgāzes", Icon: "⛈️", Group: GroupRain},
	85: {Text: "Nelielas sniega gāzes", Icon: "🌨️", Group: GroupSnow},
	86: {Text: "Stipras sniega gāzes", Icon: "❄️", Group: GroupSnow},
	95: {Text: "Pērkona negaiss", Icon: "⛈️", Group: GroupRain},
	96: {Text: "Pērkona negaiss ar krusu", Icon: "⛈️", Group: GroupRain},
	99: {Text: "Stiprs pērkona negaiss ar krusu", Icon: "⛈️", Group: GroupRain},
}

// unknownCode is returned for codes outside the WMO table.
var unknownCode = CodeInfo{Text: "Nav zināms", Icon: "❓", Group: GroupClouds}

// CodeLookup returns the description for a WMO code, with a generic fallback
// for unknown values.
func CodeLookup(code int) CodeInfo {
	if info, ok := weatherCodes[code]; ok {
		return info
	}
	return unknownCode
}

// backgrounds maps a weather group to the dashboard background class.
var backgrounds = map[Group]string{
	GroupClear:  "bg-sunny",
	GroupClouds: "bg-cloudy",
	GroupRain:   "bg-rainy",
	GroupSnow:   "bg-snowy",
}

// Background picks the background class for a reading. Night overrides the
// group-based choice when the provider's day flag says so.
func Background(code int, isDay *bool) string {
	if isDay != nil && !*isDay {
		return "bg-night"
	}
	if bg, ok := backgrounds[CodeLookup(code).Group]; ok {
		return bg
	}
	return "bg-clear"
}
