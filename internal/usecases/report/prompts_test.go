package report

import (
	"strings"
	"testing"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

func testChart() *domain.ChartData {
	return &domain.ChartData{
		Lagna: domain.Lagna{Sign: "Leo", Degrees: 15.5, Lord: "Sun"},
		Planets: map[string]domain.Planet{
			"Sun":     {Sign: "Aries", House: 9, Nakshatra: "Ashwini"},
			"Moon":    {Sign: "Cancer", House: 12, Nakshatra: "Pushya", Pada: 2},
			"Mercury": {Sign: "Pisces", House: 8, Nakshatra: "Revati"},
			"Jupiter": {Sign: "Sagittarius", House: 5, Nakshatra: "Mula"},
			"Venus":   {Sign: "Taurus", House: 10, Nakshatra: "Rohini"},
			"Saturn":  {Sign: "Capricorn", House: 6, Nakshatra: "Shravana", Retrograde: true},
			"Rahu":    {Sign: "Gemini", House: 11, Nakshatra: "Ardra"},
			"Ketu":    {Sign: "Sagittarius", House: 5, Nakshatra: "Mula"},
		},
		Houses: map[string]domain.House{
			"2":  {Sign: "Virgo", Lord: "Mercury"},
			"6":  {Sign: "Capricorn", Lord: "Saturn"},
			"9":  {Sign: "Aries", Lord: "Mars"},
			"10": {Sign: "Taurus", Lord: "Venus", Planets: []string{"Venus"}},
			"11": {Sign: "Gemini", Lord: "Mercury"},
			"12": {Sign: "Cancer", Lord: "Moon"},
		},
		Dashas: domain.Dashas{
			BalanceAtBirth: domain.DashaBalance{Planet: "Ketu", Years: 3, Months: 2, Days: 10},
			Sequence: []domain.DashaPeriod{
				{Planet: "Venus", Start: "1993-03-12", End: "2013-03-12"},
				{Planet: "Sun", Start: "2013-03-12", End: "2019-03-12"},
			},
			Current: domain.CurrentDasha{
				Mahadasha:       "Saturn",
				Antardasha:      "Mercury",
				MahadashaStart:  "2020-01-01",
				MahadashaEnd:    "2039-01-01",
				AntardashaStart: "2025-05-01",
				AntardashaEnd:   "2028-01-15",
			},
		},
		Yogas: []domain.Yoga{
			{Name: "Raja Yoga", Type: "raj", Strength: "strong", Description: "Lords of trine and kendra conjoin."},
			{Name: "Dhana Yoga", Type: "dhana", Strength: "medium", Description: "2nd and 11th lords exchange."},
			{Name: "Gajakesari Yoga", Type: "other", Strength: "weak", Description: "Jupiter in kendra from Moon."},
		},
		Numerology: &domain.Numerology{BirthNumber: 7, DestinyNumber: 3, NameNumber: 5},
	}
}

func TestBuildPromptAllTypes(t *testing.T) {
	chart := testChart()
	for _, reportType := range domain.ReportTypes {
		t.Run(string(reportType), func(t *testing.T) {
			prompt, err := BuildPrompt(reportType, chart, domain.LanguageEnglish)
			if err != nil {
				t.Fatalf("BuildPrompt() error: %v", err)
			}
			if prompt == "" {
				t.Fatal("empty prompt")
			}
			if !strings.Contains(prompt, "English") {
				t.Error("prompt missing language directive")
			}
		})
	}
}

func TestBuildPromptUnknownType(t *testing.T) {
	if _, err := BuildPrompt("palmistry", testChart(), domain.LanguageEnglish); err == nil {
		t.Fatal("expected error for unknown report type")
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	chart := testChart()
	for _, reportType := range domain.ReportTypes {
		if reportType == domain.ReportYearly {
			// Renders the current year; still deterministic within a run.
			continue
		}
		first, err := BuildPrompt(reportType, chart, domain.LanguageHindi)
		if err != nil {
			t.Fatalf("%s: %v", reportType, err)
		}
		second, _ := BuildPrompt(reportType, chart, domain.LanguageHindi)
		if first != second {
			t.Errorf("%s prompt differs between runs", reportType)
		}
	}
}

func TestCareerPromptContent(t *testing.T) {
	prompt, err := BuildPrompt(domain.ReportCareer, testChart(), domain.LanguageEnglish)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Lagna (Ascendant): Leo at 15.50°",
		"10th House (Career): Taurus, Lord: Venus",
		"10th Lord Position: Taurus in 10th house",
		"Saturn (Discipline): Capricorn in 6th house, Retrograde",
		"Mahadasha: Saturn (2020-01-01 to 2039-01-01)",
		"Raja Yoga: Lords of trine and kendra conjoin.",
		"Dhana Yoga",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("career prompt missing %q", want)
		}
	}
	// Non-career yogas are filtered out.
	if strings.Contains(prompt, "Gajakesari") {
		t.Error("career prompt includes unrelated yoga")
	}
}

func TestHindiLanguageDirective(t *testing.T) {
	prompt, err := BuildPrompt(domain.ReportWealth, testChart(), domain.LanguageHindi)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prompt, "Generate in Hindi.") {
		t.Error("wealth prompt missing Hindi directive")
	}
	if !strings.Contains(SystemPrompt(domain.LanguageHindi), "Respond in Hindi.") {
		t.Error("system prompt missing Hindi directive")
	}
	if !strings.Contains(SystemPrompt(domain.LanguageEnglish), "Respond in English.") {
		t.Error("system prompt missing English directive")
	}
}

func TestNumerologyPromptWithoutData(t *testing.T) {
	chart := testChart()
	chart.Numerology = nil
	prompt, err := BuildPrompt(domain.ReportNumerology, chart, domain.LanguageEnglish)
	if err != nil {
		t.Fatal(err)
	}
	if prompt != "Numerology data not available in chart." {
		t.Errorf("unexpected prompt: %q", prompt)
	}
}
