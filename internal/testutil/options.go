package testutil

import "github.com/zjrosen/strata/internal/catalog"

// PanelOption configures a definition during builder setup.
type PanelOption func(*catalog.Definition)

func defaultPanel(address string) catalog.Definition {
	return catalog.Definition{
		Address: address,
		Kind:    "text",
		Title:   address,
	}
}

// Kind sets the panel kind.
func Kind(kind string) PanelOption {
	return func(d *catalog.Definition) { d.Kind = kind }
}

// Title sets the panel title.
func Title(title string) PanelOption {
	return func(d *catalog.Definition) { d.Title = title }
}

// Body sets the panel body.
func Body(body string) PanelOption {
	return func(d *catalog.Definition) { d.Body = body }
}

// Param sets one kind-specific parameter.
func Param(name, value string) PanelOption {
	return func(d *catalog.Definition) {
		if d.Params == nil {
			d.Params = make(map[string]string)
		}
		d.Params[name] = value
	}
}
