package analyzer

import (
	"regexp"

	"github.com/sells-group/script-analytics/internal/model"
)

// Viral element labels, in detection order.
const (
	LabelExclusivity    = "Exclusivity element"
	LabelContrarian     = "Contrarian angle"
	LabelTransformation = "Transformation story"
	LabelDataDriven     = "Data-driven content"
	LabelPersonal       = "Personal narrative"
	LabelEmotional      = "Strong emotional trigger"
	LabelMethodology    = "Unique methodology"
)

const defaultViralWeight = 10

type viralPattern struct {
	label string
	re    *regexp.Regexp
}

var viralPatterns = []viralPattern{
	{LabelExclusivity, regexp.MustCompile(`(?i)segredo|hack|truque|descobri|revelação|nunca.*contou|\bsecrets?\b|\btricks?\b|\brevealed?\b|never.*told`)},
	{LabelContrarian, regexp.MustCompile(`(?i)contrário|oposto|diferente|ninguém|todo mundo.*mas|\bcontrary\b|\bopposite\b|\bnobody\b|everyone.*but`)},
	{LabelTransformation, regexp.MustCompile(`(?i)resultado|antes.*depois|transformação|mudança|\bresults?\b|before.*after|\btransformation\b`)},
	{LabelDataDriven, regexp.MustCompile(`(?i)número|\d+|estatística|%|vezes|dias|\bstatistics?\b|\btimes\b|\bdays\b`)},
	{LabelPersonal, regexp.MustCompile(`(?i)história|aconteceu|experiência|pessoal|\bstory\b|\bhappened\b|\bexperience\b|\bpersonal\b`)},
	{LabelEmotional, regexp.MustCompile(`(?i)chocante|surpreendente|incrível|devastador|\bshocking\b|\bsurprising\b|\bincredible\b|\bdevastating\b`)},
	{LabelMethodology, regexp.MustCompile(`(?i)sistema|método|estratégia|framework|\bsystem\b|\bmethod\b|\bstrategy\b`)},
}

var viralWeights = map[string]int{
	LabelExclusivity:    20,
	LabelContrarian:     18,
	LabelTransformation: 16,
	LabelDataDriven:     14,
	LabelPersonal:       12,
	LabelEmotional:      15,
	LabelMethodology:    17,
}

// ViralWeight returns the fixed weight for a viral element label.
func ViralWeight(label string) int {
	if w, ok := viralWeights[label]; ok {
		return w
	}
	return defaultViralWeight
}

// ViralElements scans every textual leaf of the script and returns the
// matched labels in detection order, each at most once.
func ViralElements(s model.Script) []model.ViralElement {
	content := foldJoin(model.TextLeaves(s))
	out := make([]model.ViralElement, 0, len(viralPatterns))
	for _, p := range viralPatterns {
		if p.re.MatchString(content) {
			out = append(out, model.ViralElement{Label: p.label, Weight: ViralWeight(p.label)})
		}
	}
	return out
}
