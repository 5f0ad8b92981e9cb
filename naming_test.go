package deck2pdf

import "testing"

func TestCoordinate_FileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		at   Coordinate
		want string
	}{
		{"first slide", Coordinate{Slide: 0}, "slide-01.png"},
		{"padded", Coordinate{Slide: 8}, "slide-09.png"},
		{"two digits", Coordinate{Slide: 11}, "slide-12.png"},
		{"three digits keep growing", Coordinate{Slide: 119}, "slide-120.png"},
		{"subSlide 0 shows as 1", Coordinate{Slide: 2, Sub: 0, Variant: VariantSubSlide}, "slide-03-sub-1.png"},
		{"subSlide 2 shows as 3", Coordinate{Slide: 2, Sub: 2, Variant: VariantSubSlide}, "slide-03-sub-3.png"},
		{"step keeps raw number", Coordinate{Slide: 4, Sub: 1, Variant: VariantStep}, "slide-05-step-1.png"},
		{"step max", Coordinate{Slide: 4, Sub: 3, Variant: VariantStep}, "slide-05-step-3.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.at.FileName(); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCoordinate_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		at   Coordinate
		want string
	}{
		{Coordinate{Slide: 0}, "slide 1"},
		{Coordinate{Slide: 2, Sub: 0, Variant: VariantSubSlide}, "slide 3 sub 1"},
		{Coordinate{Slide: 2, Sub: 2, Variant: VariantStep}, "slide 3 step 2"},
	}
	for _, tt := range tests {
		if got := tt.at.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
