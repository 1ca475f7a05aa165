package model

type MigrateFriendsRequest struct {
	DryRun    bool `json:"dry_run"`
	BatchSize int  `json:"batch_size"`
}

type MigrateFriendsResponse struct {
	Processed int      `json:"processed"`
	Migrated  int      `json:"migrated"`
	Errors    []string `json:"errors"`
}

type CleanupLegacyFriendsRequest struct {
	DryRun    bool `json:"dry_run"`
	BatchSize int  `json:"batch_size"`
}

type CleanupLegacyFriendsResponse struct {
	Processed int      `json:"processed"`
	Cleaned   int      `json:"cleaned"`
	Errors    []string `json:"errors"`
}
