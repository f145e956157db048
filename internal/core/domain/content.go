package domain

// Reserved creator references on legacy content rows meaning "not
// individually owned". Only admins may modify content stamped with these.
const (
	CreatorPublic     = "PUBLIC"
	CreatorAlphaUsers = "alpha users"
)

// SharedCreator reports whether a content creator reference is one of the
// reserved non-individual sentinels.
func SharedCreator(creatorID string) bool {
	return creatorID == CreatorPublic || creatorID == CreatorAlphaUsers
}
