package sentiment

// baseLexicon maps words to valences on roughly a [-4, 4] scale.
var baseLexicon = map[string]float64{
	"abysmal":       -3.2,
	"amazing":       2.8,
	"annoying":      -1.8,
	"awesome":       3.1,
	"awful":         -2.7,
	"bad":           -2.5,
	"best":          3.2,
	"better":        1.9,
	"broke":         -1.6,
	"broken":        -2.1,
	"cheap":         -0.8,
	"comfortable":   2.0,
	"crap":          -2.4,
	"damage":        -2.2,
	"damaged":       -2.2,
	"dead":          -2.9,
	"defect":        -2.1,
	"defective":     -2.4,
	"disappointed":  -2.2,
	"disappointing": -2.2,
	"dreadful":      -2.8,
	"easy":          1.6,
	"efficient":     1.9,
	"excellent":     3.2,
	"expensive":     -1.1,
	"fail":          -2.3,
	"failed":        -2.3,
	"failure":       -2.5,
	"fantastic":     3.0,
	"fast":          1.3,
	"fault":         -1.9,
	"faulty":        -2.2,
	"favorite":      2.3,
	"fine":          1.1,
	"fix":           0.5,
	"fixed":         1.2,
	"flawless":      3.0,
	"garbage":       -2.6,
	"glad":          2.0,
	"good":          1.9,
	"great":         3.1,
	"happy":         2.7,
	"hate":          -2.7,
	"horrible":      -2.5,
	"impressed":     2.4,
	"impressive":    2.6,
	"issue":         -1.4,
	"issues":        -1.4,
	"junk":          -2.3,
	"lemon":         -1.9,
	"love":          3.2,
	"loved":         2.9,
	"mediocre":      -1.0,
	"mess":          -1.8,
	"nice":          1.8,
	"noisy":         -1.3,
	"overpriced":    -1.7,
	"perfect":       3.1,
	"pleased":       2.1,
	"poor":          -2.1,
	"powerful":      1.9,
	"problem":       -1.7,
	"problems":      -1.7,
	"quality":       1.4,
	"recommend":     1.8,
	"regret":        -2.1,
	"rough":         -1.2,
	"rust":          -1.6,
	"sad":           -2.1,
	"satisfied":     2.0,
	"shoddy":        -2.3,
	"slow":          -1.2,
	"solid":         1.8,
	"stuck":         -1.8,
	"sturdy":        1.7,
	"superb":        3.0,
	"terrible":      -3.1,
	"trash":         -2.4,
	"trouble":       -1.8,
	"ugly":          -1.9,
	"unhappy":       -2.0,
	"unreliable":    -2.3,
	"upset":         -1.9,
	"useless":       -2.4,
	"waste":         -2.2,
	"weak":          -1.6,
	"wonderful":     2.9,
	"worse":         -2.4,
	"worst":         -3.3,
	"worthless":     -2.7,
	"wrong":         -1.8,
}

// domainLexicon overrides and extends the base lexicon with terms whose
// polarity shifts in the trucking context ("insane torque" is praise,
// "derate" is a serious problem).
var domainLexicon = map[string]float64{
	"insane":    2.5,
	"beast":     2.0,
	"killer":    1.5,
	"sick":      1.5,
	"monster":   1.5,
	"badass":    2.0,
	"smooth":    1.5,
	"quiet":     1.5,
	"torque":    0.5,
	"reliable":  2.0,
	"uptime":    1.5,
	"breakdown": -2.5,
	"breaks":    -1.8,
	"derate":    -2.5,
	"downtime":  -2.0,
	"stranded":  -2.5,
	"waiting":   -1.0,
	"backlog":   -1.5,
	"delay":     -1.5,
	"delayed":   -1.7,
	"recall":    -1.8,
}
