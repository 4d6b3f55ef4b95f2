package dto

// UsageLimitResponse reports the gate decision for one resource kind along
// with the numbers needed to render a limit-reached message. A limit of -1
// means unlimited.
type UsageLimitResponse struct {
	ResourceKind string `json:"resource_kind"`
	CanCreate    bool   `json:"can_create"`
	Decision     string `json:"decision"`
	Current      int    `json:"current"`
	Limit        int    `json:"limit"`
}

// UsageSnapshotResponse reports the gate decision for every resource kind.
type UsageSnapshotResponse struct {
	Limits []*UsageLimitResponse `json:"limits"`
}
