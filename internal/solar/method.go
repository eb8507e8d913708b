package solar

import "time"

// Method is a named calculation convention fixing the twilight angles used
// for Fajr and Isha.
type Method int

const (
	MuslimWorldLeague Method = iota
	Egyptian
	Karachi
	UmmAlQura
	Dubai
	Qatar
	Kuwait
	Singapore
	NorthAmerica
	Other
)

// Methods lists every supported calculation method in display order.
var Methods = []Method{
	MuslimWorldLeague, Egyptian, Karachi, UmmAlQura, Dubai,
	Qatar, Kuwait, Singapore, NorthAmerica, Other,
}

// MethodParams holds the angles (degrees below the horizon) a method uses.
// A non-zero IshaInterval replaces the Isha angle with a fixed offset after
// Maghrib.
type MethodParams struct {
	Key          string
	Name         string
	FajrAngle    float64
	IshaAngle    float64
	IshaInterval time.Duration
}

var methodParams = map[Method]MethodParams{
	MuslimWorldLeague: {Key: "muslim_world_league", Name: "Muslim World League", FajrAngle: 18, IshaAngle: 17},
	Egyptian:          {Key: "egyptian", Name: "Egyptian General Authority of Survey", FajrAngle: 19.5, IshaAngle: 17.5},
	Karachi:           {Key: "karachi", Name: "University of Islamic Sciences, Karachi", FajrAngle: 18, IshaAngle: 18},
	UmmAlQura:         {Key: "umm_al_qura", Name: "Umm al-Qura University, Makkah", FajrAngle: 18.5, IshaInterval: 90 * time.Minute},
	Dubai:             {Key: "dubai", Name: "Dubai", FajrAngle: 18.2, IshaAngle: 18.2},
	Qatar:             {Key: "qatar", Name: "Qatar", FajrAngle: 18, IshaInterval: 90 * time.Minute},
	Kuwait:            {Key: "kuwait", Name: "Kuwait", FajrAngle: 18, IshaAngle: 17.5},
	Singapore:         {Key: "singapore", Name: "Majlis Ugama Islam Singapura", FajrAngle: 20, IshaAngle: 18},
	NorthAmerica:      {Key: "north_america", Name: "Islamic Society of North America (ISNA)", FajrAngle: 15, IshaAngle: 15},
}

// Params returns the method's angles. Other (and any value missing from the
// table) uses NorthAmerica's angles under its own key.
func (m Method) Params() MethodParams {
	if p, ok := methodParams[m]; ok {
		return p
	}
	p := methodParams[NorthAmerica]
	p.Key = "other"
	p.Name = "Other (ISNA angles)"
	return p
}

func (m Method) String() string {
	return m.Params().Key
}

// Madhhab is the jurisprudential school; it only affects Asr.
type Madhhab int

const (
	Shafii Madhhab = iota
	Hanafi
)

var shadowFactors = map[Madhhab]float64{
	Shafii: 1,
	Hanafi: 2,
}

// ShadowFactor is the object-to-shadow multiple that defines Asr.
func (m Madhhab) ShadowFactor() float64 {
	if f, ok := shadowFactors[m]; ok {
		return f
	}
	return 1
}

func (m Madhhab) String() string {
	if m == Hanafi {
		return "hanafi"
	}
	return "shafi"
}
