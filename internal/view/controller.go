package view

import "github.com/woozymasta/obrasmap/internal/obras"

// Controller applies filters from a store onto map views.
type Controller struct {
	store  *obras.Store
	noData string
	opts   Options
}

// NewController binds a store to rendering options.
// Records equal to noData are left out of facet options.
func NewController(store *obras.Store, opts Options, noData string) *Controller {
	if noData == "" {
		noData = obras.NoData
	}
	return &Controller{store: store, opts: opts, noData: noData}
}

// Options returns the rendering options.
func (c *Controller) Options() Options {
	return c.opts
}

// Facets derives the selector values. The second result is false while the
// dataset is not loaded.
func (c *Controller) Facets() (obras.Facets, bool) {
	features, ok := c.store.Features()
	if !ok {
		return obras.Facets{Localities: []string{}, Organisms: []string{}, Types: []string{}}, false
	}
	return obras.DeriveFacets(features, c.noData), true
}

// Select returns the records matching f, or false while the dataset is not loaded.
func (c *Controller) Select(f obras.Filter) ([]obras.Feature, bool) {
	features, ok := c.store.Features()
	if !ok {
		return nil, false
	}
	return obras.FilterFeatures(features, f), true
}

// Apply filters the dataset and renders the result onto mv. It returns the
// number of matches; when the dataset is not loaded mv is left untouched.
func (c *Controller) Apply(mv *MapView, f obras.Filter, size Size) (int, bool) {
	matched, ok := c.Select(f)
	if !ok {
		return 0, false
	}

	Render(mv, matched, c.opts, size)
	return len(matched), true
}

// Clear renders the full dataset, as the "clear filters" button does.
func (c *Controller) Clear(mv *MapView, size Size) (int, bool) {
	return c.Apply(mv, obras.Filter{}, size)
}
