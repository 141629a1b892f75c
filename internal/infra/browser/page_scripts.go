package browser

// pageLib is injected in front of every query. locate walks a locator chain
// ([{css, hasText, text}]) and returns the first match or null.
const pageLib = `
const norm = (s) => (s || '').replace(/\s+/g, ' ').trim().toLowerCase();

const hasAll = (el, texts) => {
	const t = norm(el.textContent);
	return (texts || []).every((x) => t.includes(norm(x)));
};

const innermost = (els, text) => {
	const want = norm(text);
	const hits = els.filter((el) => norm(el.textContent).includes(want));
	return hits.filter((el) => !hits.some((o) => o !== el && el.contains(o)));
};

const locate = (chain) => {
	let scopes = [document];
	for (const part of chain) {
		let next = [];
		for (const scope of scopes) {
			for (const el of scope.querySelectorAll(part.css)) {
				if (!next.includes(el) && hasAll(el, part.hasText)) next.push(el);
			}
		}
		if (part.text) next = innermost(next, part.text);
		if (next.length === 0) return null;
		scopes = next;
	}
	return scopes[0] === document ? null : scopes[0];
};

const visible = (el) => {
	if (!el || !el.isConnected) return false;
	const style = window.getComputedStyle(el);
	if (style.display === 'none' || style.visibility === 'hidden') return false;
	const rect = el.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
};
`

// locateJS resolves a chain to an element for ElementByJS.
const locateJS = `(chain) => {` + pageLib + `
	return locate(chain);
}`

// checkJS is the predicate behind every wait and expectation.
const checkJS = `(chain, kind, want) => {` + pageLib + `
	const el = locate(chain);
	switch (kind) {
	case 'attached': return !!el;
	case 'detached': return !el;
	case 'visible': return visible(el);
	case 'hidden': return !visible(el);
	case 'enabled': return visible(el) && !el.disabled;
	case 'value': return !!el && String(el.value) === want;
	case 'checked': return !!el && el.checked === true;
	case 'option': return visible(el) && !el.disabled && [...(el.options || [])].some((o) => o.value === want);
	}
	return false;
}`

// probeJS reads a property of the located element for failure messages.
const probeJS = `(chain, prop) => {` + pageLib + `
	const el = locate(chain);
	if (!el) return { found: false, value: '' };
	return { found: true, value: String(el[prop]) };
}`

// clearJS empties an input through the native setter so frameworks see it.
const clearJS = `function () {
	const desc = Object.getOwnPropertyDescriptor(Object.getPrototypeOf(this), 'value');
	if (desc && desc.set) {
		desc.set.call(this, '');
	} else {
		this.value = '';
	}
	this.dispatchEvent(new Event('input', { bubbles: true }));
}`

// selectJS picks the option whose value property equals want and fires the
// events a user selection would.
const selectJS = `function (want) {
	const idx = [...this.options].findIndex((o) => o.value === want);
	if (idx < 0) return false;
	this.selectedIndex = idx;
	this.dispatchEvent(new Event('input', { bubbles: true }));
	this.dispatchEvent(new Event('change', { bubbles: true }));
	return true;
}`

const forceClickJS = `function () { this.click(); }`
