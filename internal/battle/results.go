package battle

import (
	"cmp"
	"slices"

	"github.com/robo-code/robocode-sub000/internal/event"
)

// Scoring constants.
const (
	SurvivalScore          = 50.0
	LastSurvivorBonusScore = 10.0
	BulletKillBonusRatio   = 0.2
	RamDamageScoreRatio    = 2.0
	RamKillBonusRatio      = 0.3
)

// roundScore is what a robot earned in the current round.
type roundScore struct {
	survival          float64
	lastSurvivorBonus float64
	bulletDamage      float64
	bulletKillBonus   float64
	ramDamage         float64
	ramKillBonus      float64
}

func (s roundScore) total() float64 {
	return s.survival + s.lastSurvivorBonus + s.bulletDamage + s.bulletKillBonus + s.ramDamage + s.ramKillBonus
}

func (s roundScore) addTo(r *event.BattleResults) {
	r.Survival += s.survival
	r.LastSurvivorBonus += s.lastSurvivorBonus
	r.BulletDamage += s.bulletDamage
	r.BulletDamageBonus += s.bulletKillBonus
	r.RamDamage += s.ramDamage
	r.RamDamageBonus += s.ramKillBonus
	r.Score += s.total()
}

// scoreboard accumulates results across rounds, one entry per contestant.
type scoreboard struct {
	totals []event.BattleResults
}

func newScoreboard(names []string) *scoreboard {
	sb := &scoreboard{totals: make([]event.BattleResults, len(names))}
	for i, name := range names {
		sb.totals[i].TeamLeaderName = name
	}
	return sb
}

// addRound folds one round into the totals. placing lists contestant
// indexes from first to last place.
func (sb *scoreboard) addRound(peers []*peer, placing []int) {
	for _, p := range peers {
		p.score.addTo(&sb.totals[p.index])
	}
	for place, idx := range placing {
		t := &sb.totals[idx]
		switch place {
		case 0:
			t.Firsts++
		case 1:
			t.Seconds++
		case 2:
			t.Thirds++
		}
	}
}

// current returns the totals with ranks assigned, best first.
func (sb *scoreboard) current() []event.BattleResults {
	out := slices.Clone(sb.totals)
	rank(out)
	return out
}

// rank sorts results by descending score and numbers them from 1.
func rank(results []event.BattleResults) {
	slices.SortStableFunc(results, func(a, b event.BattleResults) int {
		return -event.CompareResults(&a, &b)
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

// placing orders the round's robots from first to last: survivors by
// energy, then the dead in reverse order of death.
func placing(peers []*peer, deaths []*peer) []int {
	var survivors []*peer
	for _, p := range peers {
		if p.alive {
			survivors = append(survivors, p)
		}
	}
	slices.SortStableFunc(survivors, func(a, b *peer) int {
		return cmp.Compare(b.energy, a.energy)
	})

	out := make([]int, 0, len(peers))
	for _, p := range survivors {
		out = append(out, p.index)
	}
	for i := len(deaths) - 1; i >= 0; i-- {
		out = append(out, deaths[i].index)
	}
	return out
}
