package game

type SpecialAttack string

const (
	AttackTailSlam SpecialAttack = "tail_slam"
	AttackLineWrap SpecialAttack = "line_wrap"
	AttackFrenzy   SpecialAttack = "frenzy"
)

const (
	tailSlamTension  = 20
	lineWrapDamage   = 10
	frenzyFallback   = 10
	bossQTEBase      = 8
	bossQTEMax       = 13
	criticalDrainPct = 0.1
)

func attacksFor(class BossClass) []SpecialAttack {
	switch class {
	case BossWhale:
		return []SpecialAttack{AttackTailSlam, AttackLineWrap}
	case BossKraken:
		return []SpecialAttack{AttackLineWrap, AttackFrenzy}
	default:
		return []SpecialAttack{AttackTailSlam, AttackLineWrap, AttackFrenzy}
	}
}

// BossPhase maps remaining stamina percent onto tiers 1..4.
func BossPhase(staminaPct float64) int {
	switch {
	case staminaPct > 75:
		return 1
	case staminaPct > 50:
		return 2
	case staminaPct > 25:
		return 3
	default:
		return 4
	}
}

// QTECap bounds how many QTEs one reel may start.
func QTECap(f Fish) int {
	if !f.IsBoss {
		return 1 + f.Difficulty()
	}
	n := bossQTEBase + int(f.Elusiveness/2)
	if n > bossQTEMax {
		n = bossQTEMax
	}
	if n < bossQTEBase {
		n = bossQTEBase
	}
	return n
}
