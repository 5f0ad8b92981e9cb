package deck2pdf

import "context"

// FixedBottomSelector matches the floating badges presentations use for
// slide counters. Only matches whose text contains "/" are hidden.
const FixedBottomSelector = `[class*="fixed"][class*="bottom"]`

// hideUIScript sets display:none on every element matching the chrome
// selectors and on fixed-bottom badges that look like "3 / 12" counters.
// It returns the number of hidden elements.
const hideUIScript = `(selectors, badge) => {
	let hidden = 0;
	const hide = (el) => { el.style.setProperty("display", "none", "important"); hidden++; };
	for (const sel of selectors) {
		if (!sel) continue;
		document.querySelectorAll(sel).forEach(hide);
	}
	document.querySelectorAll(badge).forEach((el) => {
		if ((el.textContent || "").includes("/")) hide(el);
	});
	return hidden;
}`

// hideUI removes the presentation chrome from the rendered page.
// Changes are not reverted.
func hideUI(ctx context.Context, page Page, sel Selectors) (int, error) {
	selectors := []string{sel.Header, sel.Nav, sel.Progress}
	return page.EvalInt(ctx, hideUIScript, selectors, FixedBottomSelector)
}
