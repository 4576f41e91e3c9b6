package smoothcore

import (
	"github.com/pkg/errors"

	"github.com/nonanon1/smoothcore/kernel"
)

// ErrNoApplicableAxis is returned by SetInnerKinematics when the supplied
// inner kinematics declares no use of X or Y (spec.md §4.5, §8 property/
// scenario S6).
var ErrNoApplicableAxis = errors.New("smoothcore: inner kinematics uses neither X nor Y")

// ErrUnknownFamily re-exports kernel.ErrUnknownFamily's sentinel at the
// smoothcore API boundary so callers need not import the kernel package
// just to compare errors.
var ErrUnknownFamily = kernel.ErrUnknownFamily
