package testutil

// WithStandardPanels adds one panel of every builtin kind.
//
//	Std_Text      text
//	Std_Markdown  markdown
//	Std_Ticker    ticker
//	Std_Attribute attribute (health 50)
func (b *Builder) WithStandardPanels() *Builder {
	return b.
		WithPanel("Std_Text", Body("plain body")).
		WithPanel("Std_Markdown", Kind("markdown"), Body("# Heading\n\nSome **bold** text.")).
		WithPanel("Std_Ticker", Kind("ticker"), Param("label", "Working")).
		WithPanel("Std_Attribute", Kind("attribute"), Title("Stats"), Param("health", "50"))
}

// WithBrokenPanels adds definitions that resolve from the catalog but never
// produce an instance.
//
//	Broken_Kind      kind nobody registered, fails to build
//	Broken_Attribute non-numeric stat, fails to instantiate
func (b *Builder) WithBrokenPanels() *Builder {
	return b.
		WithPanel("Broken_Kind", Kind("txet")).
		WithPanel("Broken_Attribute", Kind("attribute"), Param("mana", "lots"))
}
