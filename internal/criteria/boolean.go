// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"github.com/Weirwood-Admin/cancer-matching-engine/pkg/types"
)

// BrainMetastases compares a patient's brain-metastasis flag against a
// trial's brain-metastasis requirement. Disallowed-but-present is a hard
// violation; otherwise agreement with the requirement is a small positive.
// A nil patient flag is unknown and contributes nothing.
func BrainMetastases(patient *bool, req *types.BrainMetastasesRequirement, d types.ComparatorDeltas) Contribution {
	if req == nil || patient == nil {
		return Contribution{}
	}
	if *patient {
		if !req.Allowed {
			return Contribution{
				Delta:     d.FlagViolation,
				Excluding: "brain metastases not allowed",
			}
		}
		reason := "brain metastases allowed"
		if req.ControlledOnly {
			reason = "brain metastases allowed if controlled"
		}
		return Contribution{Delta: d.FlagAgreement, Reason: reason}
	}
	// No brain involvement satisfies any brain-metastasis criterion.
	return Contribution{Delta: d.FlagAgreement, Reason: "no brain metastases"}
}
