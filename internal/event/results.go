package event

import "cmp"

// BattleResults holds a robot's accumulated score for a battle.
type BattleResults struct {
	TeamLeaderName    string  `json:"teamLeaderName"`
	Rank              int     `json:"rank"`
	Score             float64 `json:"score"`
	Survival          float64 `json:"survival"`
	LastSurvivorBonus float64 `json:"lastSurvivorBonus"`
	BulletDamage      float64 `json:"bulletDamage"`
	BulletDamageBonus float64 `json:"bulletDamageBonus"`
	RamDamage         float64 `json:"ramDamage"`
	RamDamageBonus    float64 `json:"ramDamageBonus"`
	Firsts            int     `json:"firsts"`
	Seconds           int     `json:"seconds"`
	Thirds            int     `json:"thirds"`
}

// ScoreLine is BattleResults with every score rounded half up.
type ScoreLine struct {
	Name              string `json:"name"`
	Rank              int    `json:"rank"`
	Score             int    `json:"score"`
	Survival          int    `json:"survival"`
	LastSurvivorBonus int    `json:"lastSurvivorBonus"`
	BulletDamage      int    `json:"bulletDamage"`
	BulletDamageBonus int    `json:"bulletDamageBonus"`
	RamDamage         int    `json:"ramDamage"`
	RamDamageBonus    int    `json:"ramDamageBonus"`
	Firsts            int    `json:"firsts"`
	Seconds           int    `json:"seconds"`
	Thirds            int    `json:"thirds"`
}

func round(v float64) int { return int(v + 0.5) }

// Rounded returns the results with scores rounded for display.
func (r *BattleResults) Rounded() ScoreLine {
	return ScoreLine{
		Name:              r.TeamLeaderName,
		Rank:              r.Rank,
		Score:             round(r.Score),
		Survival:          round(r.Survival),
		LastSurvivorBonus: round(r.LastSurvivorBonus),
		BulletDamage:      round(r.BulletDamage),
		BulletDamageBonus: round(r.BulletDamageBonus),
		RamDamage:         round(r.RamDamage),
		RamDamageBonus:    round(r.RamDamageBonus),
		Firsts:            r.Firsts,
		Seconds:           r.Seconds,
		Thirds:            r.Thirds,
	}
}

// CompareResults orders results by score ascending.
func CompareResults(a, b *BattleResults) int {
	return cmp.Compare(a.Score, b.Score)
}
