package models

// VersionListItem is a DocumentVersion prepared for transport: content may be
// truncated for the wire, never in storage.
type VersionListItem struct {
	DocumentVersion
	ContentTruncated bool `json:"content_truncated"`
}

// SweepResponse reports the outcome of an expiration sweep.
type SweepResponse struct {
	Expired int64 `json:"expired"`
}

// DiffPreviewResponse carries a computed diff for an approval request.
type DiffPreviewResponse struct {
	RequestID      int64  `json:"request_id"`
	UnifiedDiff    string `json:"unified_diff"`
	HTMLDiff       string `json:"html_diff"`
	AddedGroups    int    `json:"added_groups"`
	RemovedGroups  int    `json:"removed_groups"`
	ModifiedGroups int    `json:"modified_groups"`
	Summary        string `json:"summary"`
}
