package weather

// UnknownDescription is returned for weather codes missing from the table.
const UnknownDescription = "Unknown"

// Open-Meteo (WMO) weather codes.
var codeDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mostly clear",
	2:  "Partly cloudy",
	3:  "Cloudy",
	45: "Fog",
	48: "Freezing fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Light rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Light snow",
	77: "Hail",
	80: "Light rain showers",
	95: "Thunderstorm",
}

// Describe maps a weather code to a human-readable description.
func Describe(code int) string {
	if d, ok := codeDescriptions[code]; ok {
		return d
	}
	return UnknownDescription
}
