package types

// Status tracks the lifecycle of a persisted resource. Rows are never
// physically deleted; archived rows are excluded from default queries.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)
