package reactions

import "github.com/pscheid92/postpulse/internal/domain"

type transitionOp string

const (
	opCreate transitionOp = "created"
	opRemove transitionOp = "removed"
	opSwitch transitionOp = "switched"
)

// transition describes what a toggle has to do: the reaction mutation, the
// signed counter deltas, and the caller's resulting reaction.
type transition struct {
	op           transitionOp
	likeDelta    int
	dislikeDelta int
	viewer       *domain.ReactionKind // nil after an un-react
}

// transitionFor computes the toggle transition from the existing reaction
// (nil when the user has none) and the requested kind.
//
//	no existing reaction      -> create, +1 to requested
//	existing, same kind       -> remove, -1 to requested
//	existing, different kind  -> switch, -1 old and +1 new in one adjustment
func transitionFor(existing *domain.ReactionKind, requested domain.ReactionKind) transition {
	deltaFor := func(kind domain.ReactionKind, n int) (like, dislike int) {
		if kind == domain.ReactionLike {
			return n, 0
		}
		return 0, n
	}

	switch {
	case existing == nil:
		like, dislike := deltaFor(requested, 1)
		k := requested
		return transition{op: opCreate, likeDelta: like, dislikeDelta: dislike, viewer: &k}

	case *existing == requested:
		like, dislike := deltaFor(requested, -1)
		return transition{op: opRemove, likeDelta: like, dislikeDelta: dislike, viewer: nil}

	default:
		oldLike, oldDislike := deltaFor(*existing, -1)
		newLike, newDislike := deltaFor(requested, 1)
		k := requested
		return transition{
			op:           opSwitch,
			likeDelta:    oldLike + newLike,
			dislikeDelta: oldDislike + newDislike,
			viewer:       &k,
		}
	}
}
