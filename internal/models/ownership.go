package models

// ownershipKind discriminates the Ownership union.
type ownershipKind int

const (
	ownedByNobody ownershipKind = iota
	ownedByAuthor
	ownedByCommunity
)

// Ownership identifies who may mutate a resource: either the user who
// authored it directly, or the community it was posted into. Exactly one
// side is ever set; construct values through AuthoredBy or OwnedByCommunity.
type Ownership struct {
	kind        ownershipKind
	authorID    uint
	communityID uint
}

// AuthoredBy returns the ownership of a personally-authored resource.
func AuthoredBy(userID uint) Ownership {
	return Ownership{kind: ownedByAuthor, authorID: userID}
}

// OwnedByCommunity returns the ownership of a community-owned resource.
func OwnedByCommunity(communityID uint) Ownership {
	return Ownership{kind: ownedByCommunity, communityID: communityID}
}

// Owned is implemented by resources that can name their owner. Resolution
// may fail with an inconsistency error when the stored row violates the
// exactly-one-owner invariant.
type Owned interface {
	Ownership() (Ownership, error)
}

// AuthorID returns the owning author, if any.
func (o Ownership) AuthorID() (uint, bool) {
	return o.authorID, o.kind == ownedByAuthor
}

// CommunityID returns the owning community, if any.
func (o Ownership) CommunityID() (uint, bool) {
	return o.communityID, o.kind == ownedByCommunity
}
