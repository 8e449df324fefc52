package classify

import "github.com/ngmaloney/marine-outlook/internal/models"

// tierRule reports whether a signal belongs in tier.
type tierRule struct {
	tier  models.Tier
	match func(s Signal) bool
}

// tierRules run most severe first and the first match wins. The numeric
// bands overlap between tiers on purpose: any red flag escalates.
var tierRules = []tierRule{
	{models.TierDangerous, isDangerous},
	{models.TierCaution, isCaution},
	{models.TierModerate, isModerate},
	{models.TierGood, isGood},
	{models.TierExcellent, isExcellent},
}

// AssignTier maps a signal to a tier. Signals no rule claims are Moderate.
func AssignTier(s Signal) models.Tier {
	for _, r := range tierRules {
		if r.match(s) {
			return r.tier
		}
	}
	return models.TierModerate
}

func isDangerous(s Signal) bool {
	return (s.HasWind && s.WindSpeed > 20) ||
		(s.HasSeas && s.SeaHeight > 4) ||
		(s.HasKeyword(KeywordThunderstorms) && !s.PartialDay) ||
		(s.HasKeyword(KeywordFog) && !s.PartialDay) ||
		(s.HasVisibility && s.Visibility < 1) ||
		(s.HasGust && s.GustSpeed > 25)
}

func isCaution(s Signal) bool {
	unsettled := s.HasKeyword(KeywordShowers) || s.HasKeyword(KeywordThunderstorms) || s.HasKeyword(KeywordFog)
	wet := s.HasKeyword(KeywordRain) || s.HasKeyword(KeywordShowers)
	return (s.HasWind && between(s.WindSpeed, 15, 20)) ||
		(s.HasGust && s.GustSpeed > 20 && s.GustSpeed <= 25) ||
		(s.HasSeas && between(s.SeaHeight, 3, 4)) ||
		(unsettled && s.PartialDay) ||
		(s.HasVisibility && s.Visibility >= 1 && s.Visibility < 3) ||
		(s.PartialDay && wet)
}

func isModerate(s Signal) bool {
	return (s.HasWind && between(s.WindSpeed, 11, 20)) ||
		(s.HasSeas && between(s.SeaHeight, 2, 4)) ||
		s.HasKeyword(KeywordCloudy) ||
		(s.HasGust && s.GustSpeed > 15 && s.GustSpeed <= 20) ||
		(s.HasVisibility && s.Visibility >= 3 && s.Visibility < 6)
}

func isGood(s Signal) bool {
	return (s.HasWind && between(s.WindSpeed, 5, 15)) ||
		(s.HasSeas && between(s.SeaHeight, 1, 2)) ||
		s.HasKeyword(KeywordPartlyCloudy) ||
		(s.PartialDay && s.HasKeyword(KeywordClear)) ||
		(s.HasGust && s.GustSpeed <= 15)
}

func isExcellent(s Signal) bool {
	for _, k := range s.Keywords {
		if k != KeywordClear {
			return false
		}
	}
	return (!s.HasWind || s.WindSpeed <= 10) &&
		(!s.HasSeas || s.SeaHeight <= 1) &&
		(!s.HasVisibility || s.Visibility >= 6)
}

func between(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
