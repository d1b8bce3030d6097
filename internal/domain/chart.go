package domain

import "encoding/json"

// ChartData is the full chart payload returned by the astro engine.
// Stored opaque on the profile; only the fields needed for prompt
// building are modelled, the rest travels in Raw.
type ChartData struct {
	CalculatedAt   string            `json:"calculated_at"`
	Ayanamsha      string            `json:"ayanamsha"`
	AyanamshaValue float64           `json:"ayanamsha_value"`
	JulianDay      float64           `json:"julian_day"`
	Lagna          Lagna             `json:"lagna"`
	Planets        map[string]Planet `json:"planets"`
	Houses         map[string]House  `json:"houses"`
	Dashas         Dashas            `json:"dashas"`
	Yogas          []Yoga            `json:"yogas"`
	Numerology     *Numerology       `json:"numerology,omitempty"`

	Raw json.RawMessage `json:"-"`
}

type Lagna struct {
	Sign    string  `json:"sign"`
	SignNum int     `json:"sign_num"`
	Degrees float64 `json:"degrees"`
	Lord    string  `json:"lord"`
}

type Planet struct {
	Sign       string  `json:"sign"`
	SignNum    int     `json:"sign_num"`
	Degrees    float64 `json:"degrees"`
	House      int     `json:"house"`
	Nakshatra  string  `json:"nakshatra"`
	Pada       int     `json:"pada"`
	Retrograde bool    `json:"retrograde"`
	Combust    bool    `json:"combust"`
	Lord       string  `json:"lord"`
}

type House struct {
	Sign    string   `json:"sign"`
	Lord    string   `json:"lord"`
	Planets []string `json:"planets"`
}

type Dashas struct {
	BalanceAtBirth DashaBalance  `json:"balance_at_birth"`
	Sequence       []DashaPeriod `json:"sequence"`
	Current        CurrentDasha  `json:"current"`
}

type DashaBalance struct {
	Planet string `json:"planet"`
	Years  int    `json:"years"`
	Months int    `json:"months"`
	Days   int    `json:"days"`
}

type DashaPeriod struct {
	Planet string `json:"planet"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

type CurrentDasha struct {
	Mahadasha       string `json:"mahadasha"`
	Antardasha      string `json:"antardasha"`
	MahadashaStart  string `json:"mahadasha_start"`
	MahadashaEnd    string `json:"mahadasha_end"`
	AntardashaStart string `json:"antardasha_start"`
	AntardashaEnd   string `json:"antardasha_end"`
}

type Yoga struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Strength    string   `json:"strength"`
	Description string   `json:"description"`
	Planets     []string `json:"planets"`
	Effect      string   `json:"effect"`
}

type Numerology struct {
	BirthNumber   int `json:"birth_number"`
	NameNumber    int `json:"name_number"`
	DestinyNumber int `json:"destiny_number"`
}

// TransitData is a snapshot of current planetary positions.
type TransitData struct {
	Date    string            `json:"date"`
	Planets map[string]Planet `json:"planets"`
}

// AspectData is one transit-to-natal aspect computed by the engine.
type AspectData struct {
	TransitingPlanet string  `json:"transiting_planet"`
	NatalPlanet      string  `json:"natal_planet"`
	AspectType       string  `json:"aspect_type"`
	Orb              float64 `json:"orb"`
	Applying         bool    `json:"applying"`
}
