package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// languageInstruction renders the closing language directive shared by
// all templates.
func languageInstruction(language string) string {
	if language == domain.LanguageHindi {
		return "Hindi"
	}
	return "English"
}

// BuildPrompt renders the report-type template against the chart.
// Deterministic: the same chart and type always produce the same prompt.
func BuildPrompt(reportType domain.ReportType, chart *domain.ChartData, language string) (string, error) {
	switch reportType {
	case domain.ReportCareer:
		return careerPrompt(chart, language), nil
	case domain.ReportWealth:
		return wealthPrompt(chart, language), nil
	case domain.ReportInDepth:
		return inDepthPrompt(chart, language), nil
	case domain.ReportYearly:
		return yearlyPrompt(chart, language, time.Now().Year()), nil
	case domain.ReportNumerology:
		return numerologyPrompt(chart, language), nil
	case domain.ReportGemRecommendation:
		return gemRecommendationPrompt(chart, language), nil
	case domain.ReportTransitSaturn:
		return transitSaturnPrompt(chart, language), nil
	case domain.ReportTransitJupiter:
		return transitJupiterPrompt(chart, language), nil
	case domain.ReportTransitRahuKetu:
		return transitRahuKetuPrompt(chart, language), nil
	default:
		return "", fmt.Errorf("unknown report type %q: %w", reportType, domain.ErrValidation)
	}
}

// SystemPrompt is the role instruction sent with every report request.
func SystemPrompt(language string) string {
	respond := "Respond in English."
	if language == domain.LanguageHindi {
		respond = "Respond in Hindi."
	}
	return "You are an expert Vedic astrologer. Generate detailed, insightful horoscope reports based on birth chart data. " + respond
}

// sortedPlanetNames gives a stable iteration order over the planet map.
func sortedPlanetNames(planets map[string]domain.Planet) []string {
	names := make([]string, 0, len(planets))
	for name := range planets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sortedHouseNumbers gives a stable 1..12 iteration over the house map.
func sortedHouseNumbers(houses map[string]domain.House) []string {
	numbers := make([]string, 0, len(houses))
	for num := range houses {
		numbers = append(numbers, num)
	}
	sort.Slice(numbers, func(i, j int) bool {
		return len(numbers[i]) < len(numbers[j]) || (len(numbers[i]) == len(numbers[j]) && numbers[i] < numbers[j])
	})
	return numbers
}

func retrogradeLabel(p domain.Planet) string {
	if p.Retrograde {
		return "Retrograde"
	}
	return "Direct"
}

func careerPrompt(chart *domain.ChartData, language string) string {
	var sb strings.Builder
	sb.WriteString("# Career & Business Horoscope Analysis\n\n")

	sb.WriteString("## Birth Chart Data\n")
	sb.WriteString(fmt.Sprintf("- Lagna (Ascendant): %s at %.2f°\n", chart.Lagna.Sign, chart.Lagna.Degrees))
	if h10, ok := chart.Houses["10"]; ok {
		sb.WriteString(fmt.Sprintf("- 10th House (Career): %s, Lord: %s\n", h10.Sign, h10.Lord))
		if lord, ok := chart.Planets[h10.Lord]; ok {
			sb.WriteString(fmt.Sprintf("- 10th Lord Position: %s in %dth house\n", lord.Sign, lord.House))
		}
	}
	if h6, ok := chart.Houses["6"]; ok {
		sb.WriteString(fmt.Sprintf("- 6th House (Service): %s, Lord: %s\n", h6.Sign, h6.Lord))
	}
	if sun, ok := chart.Planets["Sun"]; ok {
		sb.WriteString(fmt.Sprintf("- Sun (Authority): %s in %dth house, %s\n", sun.Sign, sun.House, sun.Nakshatra))
	}
	if saturn, ok := chart.Planets["Saturn"]; ok {
		sb.WriteString(fmt.Sprintf("- Saturn (Discipline): %s in %dth house, %s\n", saturn.Sign, saturn.House, retrogradeLabel(saturn)))
	}
	if jupiter, ok := chart.Planets["Jupiter"]; ok {
		sb.WriteString(fmt.Sprintf("- Jupiter (Wisdom): %s in %dth house\n", jupiter.Sign, jupiter.House))
	}
	if mercury, ok := chart.Planets["Mercury"]; ok {
		sb.WriteString(fmt.Sprintf("- Mercury (Intelligence): %s in %dth house\n", mercury.Sign, mercury.House))
	}

	current := chart.Dashas.Current
	sb.WriteString("\n## Current Dasha Period\n")
	sb.WriteString(fmt.Sprintf("- Mahadasha: %s (%s to %s)\n", current.Mahadasha, current.MahadashaStart, current.MahadashaEnd))
	sb.WriteString(fmt.Sprintf("- Antardasha: %s (%s to %s)\n", current.Antardasha, current.AntardashaStart, current.AntardashaEnd))

	sb.WriteString("\n## Detected Yogas (Career-Related)\n")
	for _, yoga := range chart.Yogas {
		if yoga.Type == "raj" || yoga.Type == "dhana" || strings.Contains(yoga.Name, "Career") {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", yoga.Name, yoga.Description))
		}
	}

	sb.WriteString(`
## Analysis Request
Based on this Vedic astrology birth chart, provide a comprehensive career and business analysis covering:

1. **Natural Career Inclinations** - What fields/industries suit this person based on planetary placements?
2. **Professional Strengths** - Key talents and abilities in the workplace
3. **Career Challenges** - Potential obstacles and how to overcome them
4. **Best Career Periods** - Timing analysis based on dasha periods
5. **Business vs. Job** - Which path is more favorable?
6. **Authority & Leadership** - Potential for leadership roles
7. **Financial Success** - Wealth accumulation through career
8. **Current Period Analysis** - Specific guidance for the active ` + current.Mahadasha + `-` + current.Antardasha + ` period
9. **Practical Recommendations** - Actionable career advice

Generate a detailed, well-structured report in ` + languageInstruction(language) + ".")

	return sb.String()
}

func wealthPrompt(chart *domain.ChartData, language string) string {
	var sb strings.Builder
	sb.WriteString("# Wealth & Fortune Horoscope Analysis\n\n")

	sb.WriteString("## Birth Chart Data\n")
	sb.WriteString(fmt.Sprintf("- Lagna: %s\n", chart.Lagna.Sign))
	for _, houseNum := range []string{"2", "11"} {
		house, ok := chart.Houses[houseNum]
		if !ok {
			continue
		}
		label := "Wealth"
		if houseNum == "11" {
			label = "Gains"
		}
		line := fmt.Sprintf("- %sth House (%s): %s, Lord: %s", houseNum, label, house.Sign, house.Lord)
		if lord, ok := chart.Planets[house.Lord]; ok {
			line += fmt.Sprintf(", Position: %s in %dth", lord.Sign, lord.House)
		}
		sb.WriteString(line + "\n")
	}
	if jupiter, ok := chart.Planets["Jupiter"]; ok {
		sb.WriteString(fmt.Sprintf("- Jupiter (Karaka): %s in %dth house, %s\n", jupiter.Sign, jupiter.House, jupiter.Nakshatra))
	}
	if venus, ok := chart.Planets["Venus"]; ok {
		sb.WriteString(fmt.Sprintf("- Venus (Luxury): %s in %dth house\n", venus.Sign, venus.House))
	}

	sb.WriteString("\n## Dhana Yogas (Wealth Combinations)\n")
	for _, yoga := range chart.Yogas {
		if yoga.Type == "dhana" || strings.Contains(yoga.Name, "Wealth") || strings.Contains(yoga.Name, "Dhana") {
			sb.WriteString(fmt.Sprintf("- %s: %s (Strength: %s)\n", yoga.Name, yoga.Description, yoga.Strength))
		}
	}

	sb.WriteString(fmt.Sprintf("\n## Current Dasha\n- %s - %s\n", chart.Dashas.Current.Mahadasha, chart.Dashas.Current.Antardasha))

	sb.WriteString(`
## Analysis Request
Provide comprehensive wealth and financial fortune analysis covering:

1. **Wealth Potential** - Overall capacity for wealth accumulation
2. **Primary Income Sources** - Career vs. investments vs. inheritance
3. **Financial Strengths** - Natural money-making abilities
4. **Financial Challenges** - Areas of potential loss or obstacles
5. **Best Wealth Periods** - Timing for major financial gains
6. **Investment Guidance** - Favorable investment types (real estate, stocks, business, etc.)
7. **Savings vs. Spending** - Natural tendencies and balance needed
8. **Current Period Analysis** - Financial outlook for active dasha
9. **Wealth Remedies** - Astrological recommendations for enhancing prosperity

Generate in ` + languageInstruction(language) + ".")

	return sb.String()
}

func inDepthPrompt(chart *domain.ChartData, language string) string {
	var sb strings.Builder
	sb.WriteString("# Complete In-Depth Horoscope Analysis\n\n")

	sb.WriteString("## Personal Details\n")
	sb.WriteString(fmt.Sprintf("- Lagna (Ascendant): %s at %.2f°, Lord: %s\n", chart.Lagna.Sign, chart.Lagna.Degrees, chart.Lagna.Lord))
	if moon, ok := chart.Planets["Moon"]; ok {
		sb.WriteString(fmt.Sprintf("- Birth Nakshatra: %s, Pada %d\n", moon.Nakshatra, moon.Pada))
	}
	if chart.Numerology != nil {
		sb.WriteString(fmt.Sprintf("- Birth Number: %d, Destiny Number: %d\n", chart.Numerology.BirthNumber, chart.Numerology.DestinyNumber))
	}

	sb.WriteString("\n## All Planetary Positions\n")
	for _, name := range sortedPlanetNames(chart.Planets) {
		p := chart.Planets[name]
		line := fmt.Sprintf("- %s: %s (%.2f°) in %dth house, %s nakshatra", name, p.Sign, p.Degrees, p.House, p.Nakshatra)
		if p.Retrograde {
			line += " (Retrograde)"
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n## House Analysis\n")
	for _, num := range sortedHouseNumbers(chart.Houses) {
		house := chart.Houses[num]
		occupants := "Empty"
		if len(house.Planets) > 0 {
			occupants = strings.Join(house.Planets, ", ")
		}
		sb.WriteString(fmt.Sprintf("- %sth House: %s, Lord %s, Planets: %s\n", num, house.Sign, house.Lord, occupants))
	}

	balance := chart.Dashas.BalanceAtBirth
	sb.WriteString("\n## Vimshottari Dasha\n")
	sb.WriteString(fmt.Sprintf("- Balance at Birth: %s %dY %dM %dD\n", balance.Planet, balance.Years, balance.Months, balance.Days))
	sb.WriteString(fmt.Sprintf("- Current Period: %s - %s\n", chart.Dashas.Current.Mahadasha, chart.Dashas.Current.Antardasha))
	sb.WriteString("- Next 5 Major Periods:\n")
	sequence := chart.Dashas.Sequence
	if len(sequence) > 5 {
		sequence = sequence[:5]
	}
	for _, period := range sequence {
		sb.WriteString(fmt.Sprintf("  %s: %s to %s\n", period.Planet, period.Start, period.End))
	}

	sb.WriteString(fmt.Sprintf("\n## Detected Yogas (%d total)\n", len(chart.Yogas)))
	for _, yoga := range chart.Yogas {
		sb.WriteString(fmt.Sprintf("- **%s** (%s, %s): %s\n", yoga.Name, yoga.Type, yoga.Strength, yoga.Description))
	}

	sb.WriteString(`
## Analysis Request
This is the most comprehensive report. Provide an exhaustive 50+ page analysis covering:

### Part 1: Personality & Character
1. Core personality traits
2. Mental and emotional nature
3. Strengths and weaknesses
4. Life purpose and dharma

### Part 2: Life Areas
5. Family and early life
6. Education and learning
7. Career and profession (detailed)
8. Wealth and finances (detailed)
9. Love, marriage, and relationships
10. Children and progeny
11. Health and longevity
12. Spiritual inclinations

### Part 3: Timing Analysis
13. Complete dasha analysis (Mahadasha effects)
14. Past life karmas (based on nodes)
15. Future predictions (next 10 years)

### Part 4: Yogas & Special Combinations
16. All detected yogas explained in detail
17. Ashtakavarga analysis
18. Navamsa chart insights

### Part 5: Remedies & Recommendations
19. Gemstone recommendations
20. Mantra suggestions
21. Charitable acts
22. Lifestyle guidance

Generate an extremely detailed, well-structured report in ` + languageInstruction(language) + ".")

	return sb.String()
}

func yearlyPrompt(chart *domain.ChartData, language string, year int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %d Yearly Horoscope\n\n", year))

	sb.WriteString("## Birth Chart Summary\n")
	sb.WriteString(fmt.Sprintf("- Lagna: %s\n", chart.Lagna.Sign))
	if sun, ok := chart.Planets["Sun"]; ok {
		sb.WriteString(fmt.Sprintf("- Sun: %s in %dth house\n", sun.Sign, sun.House))
	}
	if moon, ok := chart.Planets["Moon"]; ok {
		sb.WriteString(fmt.Sprintf("- Moon: %s in %dth house, %s\n", moon.Sign, moon.House, moon.Nakshatra))
	}

	current := chart.Dashas.Current
	sb.WriteString(fmt.Sprintf("\n## Current Dasha Period (%d)\n", year))
	sb.WriteString(fmt.Sprintf("- Mahadasha: %s\n", current.Mahadasha))
	sb.WriteString(fmt.Sprintf("- Antardasha: %s\n", current.Antardasha))
	sb.WriteString(fmt.Sprintf("- Period: %s to %s\n", current.AntardashaStart, current.AntardashaEnd))

	sb.WriteString("\n## Major Planetary Positions\n")
	for _, name := range sortedPlanetNames(chart.Planets) {
		p := chart.Planets[name]
		sb.WriteString(fmt.Sprintf("- %s: %s (%dth house)\n", name, p.Sign, p.House))
	}

	sb.WriteString(fmt.Sprintf(`
## Analysis Request
Provide a detailed year-by-year forecast for %d covering:

1. **Overall Theme** - Main focus areas for the year
2. **Month-by-Month Highlights** - Key events and periods to watch
3. **Career & Profession** - Work-related developments
4. **Finance & Wealth** - Income, expenses, investments
5. **Health & Vitality** - Physical and mental well-being
6. **Relationships & Family** - Personal life dynamics
7. **Opportunities & Challenges** - What to pursue and what to avoid
8. **Important Dates** - Auspicious and inauspicious periods
9. **Yearly Remedies** - Specific recommendations for %d

Generate in %s.`, year, year, languageInstruction(language)))

	return sb.String()
}

func numerologyPrompt(chart *domain.ChartData, language string) string {
	numerology := chart.Numerology
	if numerology == nil {
		return "Numerology data not available in chart."
	}

	var sb strings.Builder
	sb.WriteString("# Numerology Report\n\n")

	sb.WriteString("## Core Numbers\n")
	sb.WriteString(fmt.Sprintf("- **Birth Number**: %d\n", numerology.BirthNumber))
	sb.WriteString(fmt.Sprintf("- **Destiny Number**: %d\n", numerology.DestinyNumber))
	if numerology.NameNumber > 0 {
		sb.WriteString(fmt.Sprintf("- **Name Number**: %d\n", numerology.NameNumber))
	} else {
		sb.WriteString("- **Name Number**: Not calculated\n")
	}

	sb.WriteString(fmt.Sprintf(`
## Analysis Request
Vedic numerology (based on Chaldean system) reveals personality and destiny through numbers.

Provide detailed analysis:

### Birth Number (%d)
1. Core personality traits
2. Natural talents and abilities
3. Life approach and behavior
4. Strengths and challenges
5. Ruling planet connection

### Destiny Number (%d)
6. Life purpose and mission
7. Career paths suited
8. Relationship compatibility
9. Major life themes
10. Karmic lessons
`, numerology.BirthNumber, numerology.DestinyNumber))

	if numerology.NameNumber > 0 {
		sb.WriteString(fmt.Sprintf(`
### Name Number (%d)
11. Social personality
12. How others perceive you
13. Professional image
14. Name change recommendations if needed
`, numerology.NameNumber))
	}

	sb.WriteString(`
### Number Combinations
15. Birth + Destiny synergy
16. Favorable dates and numbers
17. Unfavorable dates to avoid
18. Lucky numbers, colors, gemstones
19. Compatible people (by birth number)

### Year Analysis
20. Current personal year number and predictions
21. Next 5 personal years forecast

### Remedies & Recommendations
22. Numerology-based remedies
23. Name spelling optimization
24. Business/vehicle number selection
25. Important date selection

Generate comprehensive numerology report in ` + languageInstruction(language) + ".")

	return sb.String()
}

func gemRecommendationPrompt(chart *domain.ChartData, language string) string {
	var sb strings.Builder
	sb.WriteString("# Gemstone Recommendation Report\n\n")

	sb.WriteString("## Birth Chart Summary\n")
	sb.WriteString(fmt.Sprintf("- Lagna: %s, Lord: %s\n", chart.Lagna.Sign, chart.Lagna.Lord))
	if moon, ok := chart.Planets["Moon"]; ok {
		sb.WriteString(fmt.Sprintf("- Moon: %s, Nakshatra: %s\n", moon.Sign, moon.Nakshatra))
	}
	if lagnaLord, ok := chart.Planets[chart.Lagna.Lord]; ok {
		sb.WriteString(fmt.Sprintf("- Lagna Lord Position: %s in %dth house\n", lagnaLord.Sign, lagnaLord.House))
	}

	current := chart.Dashas.Current
	sb.WriteString("\n## Current Dasha\n")
	sb.WriteString(fmt.Sprintf("- Mahadasha: %s\n", current.Mahadasha))
	sb.WriteString(fmt.Sprintf("- Antardasha: %s\n", current.Antardasha))

	sb.WriteString("\n## All Planetary Positions\n")
	for _, name := range sortedPlanetNames(chart.Planets) {
		p := chart.Planets[name]
		line := fmt.Sprintf("- %s: %s in %dth house", name, p.Sign, p.House)
		if p.Retrograde {
			line += " (R)"
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString(`
## Analysis Request
Gemstones (Ratnas) are powerful Vedic remedies that channel planetary energies.

Provide comprehensive gemstone guidance:

### Primary Gemstone Recommendation
1. **Main Gemstone** - Which planet needs strengthening most?
   - Gemstone name (Sanskrit and English)
   - Ruling planet
   - Why this planet needs support
   - Expected benefits
   - Weight in carats
   - Metal setting (gold, silver, panchdhatu)
   - Finger to wear
   - Day and time to wear
   - Mantra to chant while wearing

### Secondary Gemstone (if applicable)
2. **Alternate Gemstone** - Second priority planet
   - Same details as above

### Planetary Analysis
3. **Strong Planets** - Well-placed planets (no gemstone needed)
4. **Weak Planets** - Debilitated/afflicted planets (gemstone helpful)
5. **Malefic Planets** - Planets causing problems (cautious approach)

### Gemstone Details
6. **Quality Guidelines**
   - How to identify authentic gemstones
   - Flawless vs. flawed stones
   - Activation ritual (Pran Pratishtha)
   - Wearing muhurta (auspicious time)

### Alternative Remedies
7. **Uparatnas** - Substitute gemstones (if primary too expensive)
8. **Rudraksha** - Specific beads for planets
9. **Other Remedies** - Mantras, yantras, donations

### Important Warnings
10. **Gemstones to Avoid** - Planets that are enemies or harmful
11. **Combination Rules** - Which gemstones can be worn together
12. **When to Remove** - If adverse effects occur

### Dasha-Specific Recommendations
13. **Current Period Gems** - For active ` + current.Mahadasha + `-` + current.Antardasha + `
14. **Future Preparation** - Gems for upcoming dashas

Generate detailed gemstone report in ` + languageInstruction(language) + ".")

	return sb.String()
}

func transitSaturnPrompt(chart *domain.ChartData, language string) string {
	var sb strings.Builder
	sb.WriteString("# Saturn Transit Predictions (Sade Sati & Dhaiya)\n\n")

	if saturn, ok := chart.Planets["Saturn"]; ok {
		sb.WriteString("## Natal Saturn Position\n")
		sb.WriteString(fmt.Sprintf("- Sign: %s\n", saturn.Sign))
		sb.WriteString(fmt.Sprintf("- House: %dth\n", saturn.House))
		sb.WriteString(fmt.Sprintf("- Nakshatra: %s\n", saturn.Nakshatra))
		sb.WriteString(fmt.Sprintf("- %s\n", retrogradeLabel(saturn)))
	}

	if moon, ok := chart.Planets["Moon"]; ok {
		sb.WriteString("\n## Natal Moon (for Sade Sati calculation)\n")
		sb.WriteString(fmt.Sprintf("- Moon Sign: %s\n", moon.Sign))
		sb.WriteString(fmt.Sprintf("- Moon House: %dth\n", moon.House))
		sb.WriteString(fmt.Sprintf("- Moon Nakshatra: %s\n", moon.Nakshatra))
	}

	sb.WriteString(`
## Analysis Request
Saturn takes 30 years for one zodiac cycle. Critical periods:
- **Sade Sati**: 7.5 years when Saturn transits 12th, 1st, 2nd from Moon
- **Dhaiya**: 2.5 years when Saturn transits 4th or 8th from Moon

Provide comprehensive analysis:

1. **Current Transit Status** - Is Sade Sati or Dhaiya active?
2. **Sade Sati Phases** - If applicable:
   - Rising phase (12th from Moon)
   - Peak phase (over Moon)
   - Setting phase (2nd from Moon)
3. **Impact on Life Areas**
   - Career and profession
   - Health and vitality
   - Relationships and family
   - Mental state
4. **Previous Saturn Returns** - Lessons from past transits
5. **Upcoming Critical Periods** - Next Sade Sati, Dhaiya, Saturn Return
6. **House-by-House Effects** - Saturn's transit through each house
7. **Natal Saturn Activation** - When transiting Saturn aspects natal Saturn
8. **Remedies & Mitigations** - Specific actions to reduce hardships
9. **Silver Linings** - Growth opportunities through discipline
10. **Timeline** - Exact dates for phase changes

Generate in ` + languageInstruction(language) + ".")

	return sb.String()
}

func transitJupiterPrompt(chart *domain.ChartData, language string) string {
	var sb strings.Builder
	sb.WriteString("# Jupiter Transit Predictions\n\n")

	if jupiter, ok := chart.Planets["Jupiter"]; ok {
		sb.WriteString("## Natal Jupiter Position\n")
		sb.WriteString(fmt.Sprintf("- Sign: %s\n", jupiter.Sign))
		sb.WriteString(fmt.Sprintf("- House: %dth\n", jupiter.House))
		sb.WriteString(fmt.Sprintf("- Nakshatra: %s\n", jupiter.Nakshatra))
		sb.WriteString(fmt.Sprintf("- %s\n", retrogradeLabel(jupiter)))
	}

	sb.WriteString("\n## Lagna & Key Houses\n")
	sb.WriteString(fmt.Sprintf("- Lagna: %s\n", chart.Lagna.Sign))
	if h9, ok := chart.Houses["9"]; ok {
		sb.WriteString(fmt.Sprintf("- 9th House (Jupiter's domain): %s\n", h9.Sign))
	}
	if h12, ok := chart.Houses["12"]; ok {
		sb.WriteString(fmt.Sprintf("- 12th House (Jupiter's other domain): %s\n", h12.Sign))
	}

	sb.WriteString(`
## Analysis Request
Jupiter takes 12 years to complete one zodiac cycle. Provide transit analysis covering:

1. **Current Transit Position** - Where is Jupiter now?
2. **House-by-House Effects** - As Jupiter moves through each house from Lagna
3. **Natal Jupiter Impact** - How transiting Jupiter aspects natal Jupiter
4. **Best Transit Periods** - Most auspicious houses (2, 5, 7, 9, 11 from Moon/Lagna)
5. **Challenging Periods** - Difficult transits (6, 8, 12)
6. **Career Impact** - Professional growth opportunities
7. **Wealth Impact** - Financial expansion
8. **Spiritual Growth** - Learning and wisdom
9. **Key Dates** - When Jupiter enters new signs
10. **Recommendations** - How to maximize positive transit effects

Generate in ` + languageInstruction(language) + ".")

	return sb.String()
}

func transitRahuKetuPrompt(chart *domain.ChartData, language string) string {
	var sb strings.Builder
	sb.WriteString("# Rahu-Ketu Transit Predictions (Nodal Transits)\n\n")

	sb.WriteString("## Natal Nodal Axis\n")
	if rahu, ok := chart.Planets["Rahu"]; ok {
		sb.WriteString(fmt.Sprintf("- Rahu: %s in %dth house, %s\n", rahu.Sign, rahu.House, rahu.Nakshatra))
	}
	if ketu, ok := chart.Planets["Ketu"]; ok {
		sb.WriteString(fmt.Sprintf("- Ketu: %s in %dth house, %s\n", ketu.Sign, ketu.House, ketu.Nakshatra))
	}

	sb.WriteString("\n## Lagna & Moon\n")
	sb.WriteString(fmt.Sprintf("- Lagna: %s\n", chart.Lagna.Sign))
	if moon, ok := chart.Planets["Moon"]; ok {
		sb.WriteString(fmt.Sprintf("- Moon: %s in %dth house\n", moon.Sign, moon.House))
	}

	sb.WriteString(`
## Analysis Request
Rahu and Ketu transit in reverse (retrograde) through the zodiac, spending 18 months in each sign.

Provide comprehensive analysis:

1. **Current Nodal Transit** - Current signs and houses for Rahu-Ketu
2. **Rahu Transit Effects**
   - Material desires and worldly ambitions
   - Unexpected opportunities
   - Areas of obsession or confusion
   - Technology and innovation
3. **Ketu Transit Effects**
   - Spiritual detachment
   - Past life karmas manifesting
   - Losses or letting go
   - Mystical experiences
4. **Nodal Return** - When Rahu-Ketu return to natal positions (every 18.6 years)
5. **Karmic Axis Activation** - When transiting nodes cross natal planets
6. **Eclipse Impact** - Eclipses on natal Rahu-Ketu axis
7. **House-by-House Analysis** - Effects as nodes transit each house
8. **Rahu Mahadasha Connection** - If in Rahu or Ketu dasha, special significance
9. **Remedies** - Mantras, donations, spiritual practices
10. **Timeline** - Next sign changes and major nodal events

Generate in ` + languageInstruction(language) + ".")

	return sb.String()
}
