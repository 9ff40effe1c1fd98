// Package flavor turns the engine's message cues into text.
package flavor

import (
	"math/rand/v2"

	"github.com/lox/videopoker/internal/game"
)

// Catalog holds the message pools. Streak-specific pools take precedence;
// a cue whose streak has no pool of its own falls back to the default pool
// for its kind.
type Catalog struct {
	Default  map[game.CueKind][]string
	ByStreak map[game.CueKind]map[int][]string
}

// Lines returns the pool that applies to cue.
func (c *Catalog) Lines(cue game.Cue) []string {
	if pools, ok := c.ByStreak[cue.Kind]; ok {
		if lines := pools[cue.Streak]; len(lines) > 0 {
			return lines
		}
	}
	return c.Default[cue.Kind]
}

// Pick returns a random line for cue, or "" if no pool applies.
func (c *Catalog) Pick(cue game.Cue, rng *rand.Rand) string {
	lines := c.Lines(cue)
	if len(lines) == 0 {
		return ""
	}
	return lines[rng.IntN(len(lines))]
}

// PickAll returns one line per cue, skipping cues without text.
func (c *Catalog) PickAll(cues []game.Cue, rng *rand.Rand) []string {
	var out []string
	for _, cue := range cues {
		if line := c.Pick(cue, rng); line != "" {
			out = append(out, line)
		}
	}
	return out
}

var antiGambling = []string{
	"Remember, it's only a problem if you're losing.",
	"My financial plan? This. Right here.",
	"They say quitters never win, but I'm not seeing a lot of winning here either.",
	"This isn't an addiction. It's a dedicated pursuit of poverty.",
	"The odds are 50/50: you either win, or you explain where the money went.",
	"Who needs savings when you have 'potential'?",
	"I'm not chasing losses, I'm giving my money a chance to come back home.",
	"Don't worry, you can always win it back. (Narrator: He could not.)",
	"The thrill of the win is great, but crushing despair builds character.",
	"It's called 'risk management'.",
	"Statistically, you're bound to hit a royal flush. It might just cost you a house.",
	"You miss 100% of the bets you don't take. And also about 98% of the ones you do.",
	"99% of gamblers quit right before they're about to hit it big. Don't be a statistic.",
	"Is this rock bottom? No, I can still hear digging.",
	"I have a system. It's not a *winning* system, but it is a system.",
	"It's not a gambling problem, it's a gambling solution. To the problem of having too much money.",
	"Due for a win. Any minute now...",
	"This is my retirement fund. I'm retiring to a life of excitement and ramen.",
	"My therapist said I need to face my problems. So here I am.",
	"It's an investment in entertainment. Expensive, short-lived entertainment.",
	"Just think of it as a donation to the casino's light bill.",
	"One day, my kids will understand why their college fund is invested in video poker.",
}

var streakLoss = map[int][]string{
	1: {
		"Fell at the first hurdle. Classic.",
		"Doubled your money to... zero. Nice.",
		"That was a quick ride.",
		"You had a 50/50 shot. And you missed.",
	},
	2: {
		"So close to 4x, yet so far.",
		"Greed is a powerful motivator. And a terrible financial advisor.",
		"You flew too close to the sun, Icarus.",
		"Should've cashed out.",
	},
	3: {
		"8x was just a dream. This is reality.",
		"That one's gonna sting for a while.",
		"From hero to zero at lightning speed.",
		"You were on a roll. Past tense.",
	},
	4: {
		"Risked it all for 16x and got nothing. Bold strategy.",
		"The house always wins. Especially on streak 4.",
		"So much potential... gone.",
		"This is how villains are made.",
	},
	5: {
		"You were one guess away from glory. ONE.",
		"The ultimate choke. You could have been a legend.",
		"Maximum risk, zero reward. Perfect.",
		"This will be a tough one to forget.",
	},
}

var dealAgain = []string{
	"DEAL AGAIN",
	"CHASE LOSSES",
	"JUST ONE MORE",
	"WIN IT BACK",
	"THIS IS THE ONE",
	"MY LUCK'S TURNING",
	"IT'S FINE",
}

// DefaultCatalog returns the machine's stock messages.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Default: map[game.CueKind][]string{
			game.CueLossAtStreak: antiGambling,
			game.CueAntiGambling: antiGambling,
			game.CueDealAgain:    dealAgain,
			game.CueOutOfCredits: {"You've run out of credits. This feeling of loss is what addiction feeds on."},
			game.CueStop:         {"It's Time To Stop. In the real world, there are no restarts. If gambling is a problem, seek help."},
			game.CueMaxStreak:    {"MAX STREAK! Cashing out."},
		},
		ByStreak: map[game.CueKind]map[int][]string{
			game.CueLossAtStreak: streakLoss,
		},
	}
}
