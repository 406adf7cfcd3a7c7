package guard

import "github.com/justsurfingit/talent-portal/internal/models"

// Capabilities lists what the interface offers a role. Navigation and pages
// read these flags instead of comparing roles themselves.
type Capabilities struct {
	CanBrowseJobs          bool `json:"can_browse_jobs"`
	CanApply               bool `json:"can_apply"`
	CanViewOwnApplications bool `json:"can_view_own_applications"`
	CanCreateJob           bool `json:"can_create_job"`
	CanEditJob             bool `json:"can_edit_job"`
	CanDeleteJob           bool `json:"can_delete_job"`
	CanReviewApplications  bool `json:"can_review_applications"`
}

func CapabilitiesFor(role models.Role) Capabilities {
	switch role {
	case models.RoleAdmin:
		return Capabilities{
			CanCreateJob:          true,
			CanEditJob:            true,
			CanDeleteJob:          true,
			CanReviewApplications: true,
		}
	case models.RoleCandidate:
		return Capabilities{
			CanBrowseJobs:          true,
			CanApply:               true,
			CanViewOwnApplications: true,
		}
	}
	return Capabilities{}
}
