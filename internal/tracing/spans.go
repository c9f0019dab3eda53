package tracing

// Span names.
const (
	SpanOpen    = "panel.open"
	SpanPreload = "panel.preload"
	SpanClose   = "panel.close"
	SpanClear   = "panel.clear_all"
)

// Span attribute keys.
const (
	AttrPanelAddress = "panel.address"
	AttrPanelLayer   = "panel.layer"
	AttrPanelID      = "panel.instance_id"
	AttrLoadIssued   = "asset.load_issued"
	AttrLoadStatus   = "asset.load_status"
	AttrReshow       = "panel.reshow"
	AttrClosedCount  = "panel.closed_count"
	AttrErrorKind    = "error.kind"
)
