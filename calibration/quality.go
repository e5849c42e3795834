package calibration

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// Advisories lists the ways in which a calibration looks physically implausible without being
// unusable. None of these are enforced at construction.
func (v Value) Advisories() []string {
	var advisories []string
	if len(v.validFileNames) == 0 {
		advisories = append(advisories, "no calibration images were recorded")
	}
	if lo.Contains(v.validFileNames, "") {
		advisories = append(advisories, "calibration image list contains an empty name")
	}
	if dups := lo.FindDuplicates(v.validFileNames); len(dups) > 0 {
		advisories = append(advisories, fmt.Sprintf("calibration images used more than once: %v", dups))
	}
	if !(v.cx >= 0 && v.cx < float64(v.width)) || !(v.cy >= 0 && v.cy < float64(v.height)) {
		advisories = append(advisories, fmt.Sprintf(
			"principal point (%v, %v) lies outside the %dx%d sensor", v.cx, v.cy, v.width, v.height))
	}
	for i, coeff := range v.DistortionCoefficients() {
		if math.IsNaN(coeff) || math.IsInf(coeff, 0) {
			advisories = append(advisories, fmt.Sprintf("distortion coefficient %d is not finite", i))
		}
	}
	return advisories
}

// Acceptable reports whether the re-projection error is within maxRMSError and the
// calibration raises no advisories.
func (v Value) Acceptable(maxRMSError float64) bool {
	return v.rmsError <= maxRMSError && len(v.Advisories()) == 0
}
