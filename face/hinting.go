package face

import "golang.org/x/image/font"

// HintPolicy is the resolved hinting target for a face, computed once from
// the host's (hinting, hintstyle) pair:
//
//	hinting=false                    -> NoHinting
//	hinting=true, hintstyle >= 3      -> TargetNormal
//	hinting=true, 0 < hintstyle < 3   -> TargetLight
//	hinting=true, hintstyle <= 0      -> Default (engine default alone)
type HintPolicy int

const (
	// HintNone disables hinting entirely.
	HintNone HintPolicy = iota
	// HintTargetLight requests light autohinting.
	HintTargetLight
	// HintTargetNormal requests normal (full) hinting.
	HintTargetNormal
	// HintDefault leaves the hint flags at the outline engine's default.
	HintDefault
)

// ComputeHintPolicy resolves the host's (hinting, hintstyle) pair into a
// HintPolicy.
func ComputeHintPolicy(hinting bool, hintstyle int) HintPolicy {
	if !hinting {
		return HintNone
	}
	if hintstyle >= 3 {
		return HintTargetNormal
	}
	if hintstyle > 0 {
		return HintTargetLight
	}
	return HintDefault
}

// ximageHinting maps a resolved HintPolicy onto the golang.org/x/image
// hinting enum used when computing glyph advances/bounds/metrics. x/image
// only distinguishes none/vertical/full, so TargetLight and Default both
// fold to the engine's own full-hinting path in the ximage parser backend.
func (p HintPolicy) ximageHinting() font.Hinting {
	if p == HintNone {
		return font.HintingNone
	}
	return font.HintingFull
}
