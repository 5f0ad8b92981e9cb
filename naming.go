package deck2pdf

import "fmt"

// FileName returns the PNG file name of a coordinate. Slides are numbered
// from 1 and padded to two digits; sub-slides are shown 1-based while steps
// keep their raw number:
//
//	slide-03.png, slide-03-sub-1.png, slide-03-step-1.png
func (c Coordinate) FileName() string {
	switch c.Variant {
	case VariantSubSlide:
		return fmt.Sprintf("slide-%02d-sub-%d.png", c.Slide+1, c.Sub+1)
	case VariantStep:
		return fmt.Sprintf("slide-%02d-step-%d.png", c.Slide+1, c.Sub)
	default:
		return fmt.Sprintf("slide-%02d.png", c.Slide+1)
	}
}

// String returns a short label for progress output.
func (c Coordinate) String() string {
	switch c.Variant {
	case VariantSubSlide:
		return fmt.Sprintf("slide %d sub %d", c.Slide+1, c.Sub+1)
	case VariantStep:
		return fmt.Sprintf("slide %d step %d", c.Slide+1, c.Sub)
	default:
		return fmt.Sprintf("slide %d", c.Slide+1)
	}
}
