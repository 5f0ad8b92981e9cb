// Package deck2pdf exports a browser-based slide presentation to PDF.
//
// # Quick Start
//
// Point an exporter at a running dev server and export:
//
//	exp := deck2pdf.NewExporter(deck2pdf.WithLogger(logrus.StandardLogger()))
//
//	res, err := exp.Export(ctx, &deck2pdf.Config{
//	    URL:         "http://localhost:5173",
//	    TotalSlides: 12,
//	    SubSlides: map[string]deck2pdf.SubSlideSpec{
//	        "3": {Type: deck2pdf.VariantSubSlide, Max: 2},
//	        "7": {Type: deck2pdf.VariantStep, Max: 4},
//	    },
//	    HideUI: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.PDFPath, res.Pages)
//
// # Export Pipeline
//
//  1. The server is probed once with a 2s GET; anything but 200 aborts
//     before a browser starts (ErrServerUnavailable).
//  2. One headless browser opens one page at Config.URL.
//  3. Slides 0..TotalSlides-1 are visited in order with ArrowRight and
//     ArrowLeft. The current slide is read from the progress indicator.
//  4. Slides listed in SubSlides also export their secondary states, reached
//     with ArrowDown. "subSlide" ranges are [0, max], "step" ranges [1, max].
//  5. Every state is screenshotted after its readiness waits, written as
//     slide-NN[-sub-K|-step-K].png, and appended to the document as one page
//     sized to the image.
//  6. The merged PDF is written once, after the last slide.
//
// On error the browser is closed and no PDF is written; the PNGs already
// captured stay on disk.
//
// # Browsers
//
// The rod backend is the default; set Config.Browser.Backend to "chromedp"
// for the alternative. On macOS the installed Chrome or Chromium is used,
// elsewhere the browser found by rod, downloading one when none is found.
// ROD_BROWSER_BIN overrides the executable and ROD_NO_SANDBOX=1 disables the
// Chrome sandbox for containers and CI.
package deck2pdf
