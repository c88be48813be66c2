package sanitize

// allowedTags is the set of elements that may survive sanitization.
// Anything else, script and iframe included, is collapsed into its
// text content. The set covers the markup a notification body can
// reasonably carry: text structure, lists, tables, links and images.
var allowedTags = map[string]bool{
	// Sectioning and grouping
	"article": true, "aside": true, "details": true, "summary": true,
	"figure": true, "figcaption": true, "footer": true, "header": true,
	"main": true, "nav": true, "section": true, "div": true, "span": true,

	// Headings
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hgroup": true,

	// Block text
	"p": true, "blockquote": true, "pre": true, "address": true, "hr": true,

	// Lists
	"ul": true, "ol": true, "li": true, "dl": true, "dt": true, "dd": true,

	// Inline text
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true, "br": true,
	"cite": true, "code": true, "data": true, "dfn": true, "em": true,
	"i": true, "kbd": true, "mark": true, "q": true, "rp": true, "rt": true,
	"ruby": true, "s": true, "samp": true, "small": true, "strong": true,
	"sub": true, "sup": true, "time": true, "u": true, "var": true,
	"wbr": true, "del": true, "ins": true,

	// Media
	"img": true,

	// Tables
	"table": true, "caption": true, "colgroup": true, "col": true,
	"thead": true, "tbody": true, "tfoot": true, "tr": true, "td": true,
	"th": true,
}

// globalAttributes may appear on any allowed element. aria-* and
// data-* prefixes are allowed alongside these; on* handlers and style
// are stripped before this set is ever consulted.
var globalAttributes = map[string]bool{
	"class":    true,
	"dir":      true,
	"id":       true,
	"lang":     true,
	"role":     true,
	"tabindex": true,
	"title":    true,
}

// tagAttributes lists the extra attributes each element may keep.
var tagAttributes = map[string]map[string]bool{
	"a":          {"href": true, "hreflang": true, "rel": true, "target": true, "type": true},
	"blockquote": {"cite": true},
	"col":        {"span": true},
	"colgroup":   {"span": true},
	"data":       {"value": true},
	"del":        {"cite": true, "datetime": true},
	"img":        {"alt": true, "height": true, "loading": true, "src": true, "width": true},
	"ins":        {"cite": true, "datetime": true},
	"li":         {"value": true},
	"ol":         {"reversed": true, "start": true, "type": true},
	"q":          {"cite": true},
	"td":         {"colspan": true, "headers": true, "rowspan": true},
	"th":         {"abbr": true, "colspan": true, "headers": true, "rowspan": true, "scope": true},
	"time":       {"datetime": true},
	"ul":         {"type": true},
}

// urlAttributes carry link targets and must pass safeurl to survive.
var urlAttributes = map[string]bool{
	"cite": true,
	"href": true,
	"src":  true,
}
