package analyzer

import (
	"regexp"
	"strings"
)

// hookPattern is one scored category of hook language.
type hookPattern struct {
	name string
	re   *regexp.Regexp
}

// hookPatterns are evaluated independently; each contributes
// min(15, matches*10).
var hookPatterns = []hookPattern{
	{"curiosity_gap", regexp.MustCompile(`(?i)o que.*não.*sabe|segredo|nunca.*contou|descobri|revelação|verdade|\bsecrets?\b|nobody.*told|\btruth\b|\brevealed?\b`)},
	{"contradiction", regexp.MustCompile(`(?i)todo mundo.*mas|todos.*pensam.*porém|contrário|oposto|diferente|everyone.*but|\bcontrary\b|\bopposite\b|\bwrong about\b`)},
	{"personal_story", regexp.MustCompile(`(?i)ontem|semana passada|anos atrás|aconteceu comigo|minha experiência|descobri|\byesterday\b|\blast week\b|years ago|happened to me|\bmy experience\b`)},
	{"benefit", regexp.MustCompile(`(?i)minutos para|aprenda.*em|como.*sem|método|estratégia|sistema|minutes to|\blearn\b.*\bin\b|how to.*without|\bmethod\b|\bstrategy\b|\bsystem\b`)},
	{"urgency", regexp.MustCompile(`(?i)agora|hoje|ainda|antes que|última chance|apenas|só|\bnow\b|\btoday\b|before it|last chance|\bonly\b`)},
	{"emotional", regexp.MustCompile(`(?i)chocante|surpreendente|incrível|impressionante|devastador|transformador|\bshocking\b|\bsurprising\b|\bincredible\b|\bimpressive\b|\bdevastating\b|\blife-changing\b`)},
}

var numberToken = regexp.MustCompile(`\d+`)

// nicheKeywords maps a niche to the keywords that earn its hook bonus.
var nicheKeywords = map[string][]string{
	"gaming":    {"jogar", "jogo", "gaming", "gamer", "build", "setup", "gameplay", "boss", "level"},
	"tech":      {"tecnologia", "app", "software", "device", "review", "specs", "performance", "update"},
	"lifestyle": {"vida", "rotina", "dicas", "style", "day in life", "morning", "evening", "habits"},
	"education": {"aprender", "curso", "tutorial", "ensinar", "explicar", "passo", "método", "estudo"},
	"business":  {"negócio", "empreender", "vender", "marketing", "lucro", "dinheiro", "receita", "cliente"},
	"fitness":   {"treino", "academia", "exercício", "músculo", "dieta", "peso", "forma", "saúde"},
	"cooking":   {"receita", "cozinhar", "ingrediente", "sabor", "prato", "culinária", "chef"},
	"travel":    {"viagem", "destino", "país", "cidade", "cultura", "aventura", "mochilão"},
}

// HookStrength scores a hook line for retention potential on [0,100].
// nicheBonusCap limits the niche keyword bonus; 0 leaves it uncapped.
func HookStrength(hookText, niche string, nicheBonusCap int) int {
	hook := normalize(hookText)
	score := 50

	for _, p := range hookPatterns {
		if n := len(p.re.FindAllStringIndex(hook, -1)); n > 0 {
			score += min(15, n*10)
		}
	}

	switch words := len(strings.Fields(hook)); {
	case words >= 6 && words <= 15:
		score += 10
	case words > 20:
		score -= 15
	case words < 5:
		score -= 10
	}

	if n := distinctNumbers(hook); n > 0 {
		score += min(10, n*5)
	}

	if strings.Contains(hook, "?") {
		score += 8
	}

	bonus := NicheBonus(hook, niche)
	if nicheBonusCap > 0 {
		bonus = min(bonus, nicheBonusCap)
	}
	score += bonus

	return clampScore(score)
}

// NicheBonus returns 5 points per niche keyword found in the hook.
// Unknown or empty niches earn nothing.
func NicheBonus(hookText, niche string) int {
	keywords, ok := nicheKeywords[fold(strings.TrimSpace(niche))]
	if !ok {
		return 0
	}
	hook := fold(hookText)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(hook, kw) {
			hits++
		}
	}
	return hits * 5
}

func distinctNumbers(s string) int {
	seen := make(map[string]struct{})
	for _, tok := range numberToken.FindAllString(s, -1) {
		seen[tok] = struct{}{}
	}
	return len(seen)
}
