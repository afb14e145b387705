package rerank

import "math"

// BoostConfig 是 facet 命中后的加分参数。数值是兼容性约定，不是可调的默认值。
type BoostConfig struct {
	MinBase         float64
	BonusMultiplier float64
	MaxBonus        float64
	MaxMatch        float64
}

var (
	CareerBoost    = BoostConfig{MinBase: 60, BonusMultiplier: 20, MaxBonus: 35, MaxMatch: 95}
	TESDABoost     = BoostConfig{MinBase: 60, BonusMultiplier: 20, MaxBonus: 35, MaxMatch: 95}
	EducationBoost = BoostConfig{MinBase: 80, BonusMultiplier: 20, MaxBonus: 35, MaxMatch: 95}
)

// Apply 计算加权后的 match：
//
//	min(max(match, MinBase) + min(score/10 × BonusMultiplier, MaxBonus), MaxMatch)
//
// score <= 0 不加权；结果不会低于原 match（原值已超过 MaxMatch 时保持原值）。
func (c BoostConfig) Apply(match float64, score int) float64 {
	if score <= 0 {
		return match
	}
	bonus := math.Min(float64(score)/10*c.BonusMultiplier, c.MaxBonus)
	v := math.Min(math.Max(match, c.MinBase)+bonus, c.MaxMatch)
	v = math.Round(v*10) / 10
	if v < match {
		return match
	}
	return v
}
