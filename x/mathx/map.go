package mathx

import "golang.org/x/exp/constraints"

// Map rescales x from [inMin,inMax] onto [outMin,outMax] with truncating
// integer division. Inputs outside the source range extrapolate; callers
// validate first. A zero-width source range yields outMin.
func Map[T constraints.Signed](x, inMin, inMax, outMin, outMax T) T {
	if inMax == inMin {
		return outMin
	}
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
