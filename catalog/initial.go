package catalog

import (
	"github.com/erraggy/oasresolve/oaserrors"
	"github.com/erraggy/oasresolve/resolver"
	"github.com/erraggy/oasresolve/urimap"
)

// Initial returns the entry-point document of the catalog.
//
// A document designated with WithInitialDocument is loaded and returned
// directly; its parsed root must be a mapping carrying a top-level
// "openapi" field. Without a designation the mapping entries are
// scanned: file entries in configuration order, then URL entries in
// configuration order. Each candidate is fully loaded and the first
// whose root carries the marker is selected; a failing candidate load
// aborts the scan. The scan loads every candidate in the worst case, so
// prefer an explicit designation for large document sets.
//
// When the scan runs out of candidates the error matches
// oaserrors.ErrNoInitialDocument.
func (c *Catalog) Initial() (*resolver.Document, error) {
	if !c.initial.IsZero() {
		doc, err := c.Load(c.initial.String())
		if err != nil {
			return nil, &oaserrors.SelectionError{
				URI:     c.initial.String(),
				Message: "cannot load the designated initial document",
				Cause:   err,
			}
		}
		if !doc.HasOpenAPIMarker() {
			return nil, &oaserrors.SelectionError{
				URI:     c.initial.String(),
				Message: `initial document must contain "openapi"`,
			}
		}
		return doc, nil
	}

	candidates := scanOrder(c.resolver.Entries())
	c.log().Warn("no initial document designated, scanning entry contents",
		"candidates", len(candidates))

	scanned := 0
	for _, e := range candidates {
		scanned++
		doc, err := c.Load(e.Identity.String())
		if err != nil {
			return nil, &oaserrors.SelectionError{
				URI:     e.Identity.String(),
				Scanned: scanned,
				Message: "cannot load candidate during initial-document scan",
				Cause:   err,
			}
		}
		if doc.HasOpenAPIMarker() {
			c.log().Debug("initial document selected",
				"uri", e.Identity.String(), "scanned", scanned)
			return doc, nil
		}
	}

	return nil, &oaserrors.SelectionError{
		Scanned:     scanned,
		IsExhausted: true,
		Message:     `no entry document contains an "openapi" field`,
	}
}

// scanOrder returns file entries before URL entries, each group in
// configuration order.
func scanOrder(entries []urimap.Entry) []urimap.Entry {
	out := make([]urimap.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Location.IsFileURL() {
			out = append(out, e)
		}
	}
	for _, e := range entries {
		if e.Location.IsHTTPURL() {
			out = append(out, e)
		}
	}
	return out
}
