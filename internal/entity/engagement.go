package entity

// TargetKind names what a reaction points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// ReactionValue is the single-valued reaction state a user holds on a
// target. A user never holds like and dislike at once; the absence of a
// stored row reads as ReactionNone.
type ReactionValue string

const (
	ReactionNone    ReactionValue = "none"
	ReactionLike    ReactionValue = "like"
	ReactionDislike ReactionValue = "dislike"
)

// IsAction reports whether v is something a user can apply. ReactionNone is
// a state, not an action.
func (v ReactionValue) IsAction() bool {
	return v == ReactionLike || v == ReactionDislike
}

// NextReaction is the toggle transition table:
//
//	none    --like-->    like      like    --like-->    none
//	none    --dislike--> dislike   dislike --dislike--> none
//	like    --dislike--> dislike   dislike --like-->    like
//
// Applying the value already held clears it; anything else overwrites.
func NextReaction(current, action ReactionValue) ReactionValue {
	if current == action {
		return ReactionNone
	}
	return action
}

// Target is a tagged reference to a post or comment.
type Target struct {
	Kind TargetKind
	ID   string
}

// FollowOutcome reports the state a follow mutation left behind.
type FollowOutcome string

const (
	Followed     FollowOutcome = "followed"
	Unfollowed   FollowOutcome = "unfollowed"
	NotFollowing FollowOutcome = "not_following"
)
