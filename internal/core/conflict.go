package core

// ConflictKind classifies a conflict by how much re-planning freedom the
// two agents involved actually have. Ordered from most to least
// constraining: a Frozen conflict involves an agent whose path may not
// change at all, so it always dominates the branching choice; a Cardinal
// conflict is one where both branches of the constraint tree are
// provably forced to increase cost; SemiCardinal only one side is;
// NonCardinal neither is (the common case).
type ConflictKind int

const (
	NonCardinal ConflictKind = iota
	SemiCardinal
	Cardinal
	Frozen
)

func (k ConflictKind) String() string {
	switch k {
	case Frozen:
		return "frozen"
	case Cardinal:
		return "cardinal"
	case SemiCardinal:
		return "semi-cardinal"
	default:
		return "non-cardinal"
	}
}

// Conflict is a pair of Moves, one per agent, that cannot both stand as
// planned. Overcost is the smaller of the cost increases the conflict
// forces on the constraint tree's children; CBS fills it in together
// with Kind after replanning each side, and uses the classified conflict
// to order constraint-tree nodes of equal cost.
type Conflict struct {
	A, B     Move
	Kind     ConflictKind
	Overcost Duration
}

// MoreSevere reports whether c should be preferred over other as the CBS
// branching choice: by Kind (Frozen first), then by Overcost descending,
// then by the earliest interval start across the two moves (earlier
// first). This mirrors the originating research code's Conflict::cmp.
func MoreSevere(c, other Conflict) bool {
	if c.Kind != other.Kind {
		return c.Kind > other.Kind
	}
	if c.Overcost != other.Overcost {
		return c.Overcost > other.Overcost
	}
	return earliestStart(c) < earliestStart(other)
}

func earliestStart(c Conflict) Time {
	if c.A.Interval.Start.Before(c.B.Interval.Start) {
		return c.A.Interval.Start
	}
	return c.B.Interval.Start
}
