package weather

import "strings"

// ConditionFromCode maps an OpenWeatherMap-style numeric weather code to a
// normalized Condition. Codes outside every documented range map to
// ConditionUnknown; an unrecognized code never fails a decode.
func ConditionFromCode(code int) Condition {
	switch {
	case code == 800:
		return ConditionClear
	case code == 801:
		return ConditionPartlyCloudy
	case code == 802:
		return ConditionCloudy
	case code == 803 || code == 804:
		return ConditionOvercast
	case code == 701 || code == 741:
		return ConditionFog
	case code == 711 || code == 721 || code == 731 || code == 751 || code == 761 || code == 762:
		return ConditionMist
	case code >= 300 && code <= 321:
		return ConditionDrizzle
	case code == 500:
		return ConditionLightRain
	case code >= 501 && code <= 504:
		return ConditionRain
	case code == 511 || (code >= 520 && code <= 531):
		return ConditionHeavyRain
	case code >= 200 && code <= 232:
		return ConditionThunderstorm
	case code == 600:
		return ConditionLightSnow
	case code == 601:
		return ConditionSnow
	case code == 602 || (code >= 611 && code <= 622):
		return ConditionHeavySnow
	default:
		return ConditionUnknown
	}
}

// ConditionFromText maps free-text provider condition descriptions to a
// normalized Condition. Checks run in a fixed priority order, so a
// description containing both "partly" and "cloud" resolves to
// ConditionPartlyCloudy.
func ConditionFromText(text string) Condition {
	v := strings.ToLower(text)

	switch {
	case hasAny(v, "sun", "clear"):
		return ConditionClear
	case hasAny(v, "partly"):
		return ConditionPartlyCloudy
	case hasAny(v, "cloud"):
		return ConditionCloudy
	case hasAny(v, "rain"):
		return ConditionRain
	case hasAny(v, "drizzle"):
		return ConditionDrizzle
	case hasAny(v, "thunder"):
		return ConditionThunderstorm
	case hasAny(v, "snow"):
		return ConditionSnow
	case hasAny(v, "fog", "mist"):
		return ConditionFog
	default:
		return ConditionUnknown
	}
}

// hasAny returns true if s contains any of the substrings.
func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
