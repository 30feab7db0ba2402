package auth

import "strings"

// ============================================================================
// DOMAIN-SPECIFIC SCOPES
// ============================================================================

const (
	ScopeAll = "*"

	// Job scopes
	ScopeJobsAll   = "jobs:*"
	ScopeJobsRead  = "jobs:read"
	ScopeJobsWrite = "jobs:write"

	// Candidate scopes
	ScopeCandidatesAll  = "candidates:*"
	ScopeCandidatesRead = "candidates:read"

	// Application scopes
	ScopeApplicationsAll    = "applications:*"
	ScopeApplicationsRead   = "applications:read"
	ScopeApplicationsWrite  = "applications:write"
	ScopeApplicationsExport = "applications:export" // Download joined exports

	// Banner scopes
	ScopeBannersWrite = "banners:write"
)

// DomainScopeDescriptions provides descriptions for domain scopes
var DomainScopeDescriptions = map[string]string{
	ScopeAll: "Full access",

	ScopeJobsAll:   "Full access to job management",
	ScopeJobsRead:  "View jobs",
	ScopeJobsWrite: "Create, edit, close and reopen jobs",

	ScopeCandidatesAll:  "Full access to candidate profiles",
	ScopeCandidatesRead: "View candidate profiles",

	ScopeApplicationsAll:    "Full access to application management",
	ScopeApplicationsRead:   "View application listings and snapshots",
	ScopeApplicationsWrite:  "Change application status",
	ScopeApplicationsExport: "Export applications with applicant details",

	ScopeBannersWrite: "Manage the home page carousel",
}

// DomainScopeGroups defines operator role groupings
var DomainScopeGroups = map[string][]string{
	"admin": {
		ScopeAll,
	},
	"recruiter": {
		ScopeJobsAll,
		ScopeCandidatesRead,
		ScopeApplicationsAll,
		ScopeBannersWrite,
	},
	"viewer": {
		ScopeJobsRead,
		ScopeCandidatesRead,
		ScopeApplicationsRead,
	},
}

// ScopesForRole returns the scopes granted by a role group
func ScopesForRole(role string) []string {
	return DomainScopeGroups[role]
}

// HasScope reports whether granted covers required, honoring "*" and "<resource>:*"
func HasScope(granted []string, required string) bool {
	resource, _, _ := strings.Cut(required, ":")
	for _, s := range granted {
		switch s {
		case required, ScopeAll, resource + ":*":
			return true
		}
	}
	return false
}
