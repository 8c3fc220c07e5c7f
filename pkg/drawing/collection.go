package drawing

import (
	"github.com/samber/lo"

	"github.com/raykavin/chartcore/pkg/core"
)

// Collection is an ordered set of drawings, back to front. Every method
// returns a new collection and leaves the receiver untouched; unknown ids
// are no-ops.
type Collection []Drawing

// Get returns the drawing with the given id
func (c Collection) Get(id string) (Drawing, bool) {
	return lo.Find(c, func(d Drawing) bool { return d.ID == id })
}

// Has reports whether a drawing with the id exists
func (c Collection) Has(id string) bool {
	return lo.ContainsBy(c, func(d Drawing) bool { return d.ID == id })
}

// Add appends d on top of the stack
func (c Collection) Add(d Drawing) Collection {
	out := make(Collection, 0, len(c)+1)
	out = append(out, c...)
	return append(out, d)
}

// Replace swaps the drawing carrying d's id for d
func (c Collection) Replace(d Drawing) Collection {
	return c.update(d.ID, func(Drawing) Drawing { return d })
}

// UpdateStyle replaces the style of a drawing
func (c Collection) UpdateStyle(id string, style Style) Collection {
	return c.update(id, func(d Drawing) Drawing {
		d.Style = style.Clone()
		return d
	})
}

// ToggleVisibility flips the visible flag of a drawing
func (c Collection) ToggleVisibility(id string) Collection {
	return c.update(id, func(d Drawing) Drawing {
		d.Visible = !d.Visible
		return d
	})
}

// SetLocked locks or unlocks a drawing
func (c Collection) SetLocked(id string, locked bool) Collection {
	return c.update(id, func(d Drawing) Drawing {
		d.Locked = locked
		return d
	})
}

// SetText replaces the text of a note or callout
func (c Collection) SetText(id, text string) Collection {
	return c.update(id, func(d Drawing) Drawing {
		switch s := d.Shape.(type) {
		case TextNote:
			s.Text = text
			d.Shape = s
		case Callout:
			s.Text = text
			d.Shape = s
		}
		return d
	})
}

// Delete removes a drawing
func (c Collection) Delete(id string) Collection {
	return lo.Filter(c, func(d Drawing, _ int) bool { return d.ID != id })
}

// BringToFront moves a drawing to the top of the stack
func (c Collection) BringToFront(id string) Collection {
	d, ok := c.Get(id)
	if !ok {
		return c.Copy()
	}
	return c.Delete(id).Add(d)
}

// SendToBack moves a drawing to the bottom of the stack
func (c Collection) SendToBack(id string) Collection {
	d, ok := c.Get(id)
	if !ok {
		return c.Copy()
	}
	return append(Collection{d}, c.Delete(id)...)
}

// Clone duplicates a drawing under newID and appends it on top
func (c Collection) Clone(id, newID string, interval int64) (Collection, Drawing, bool) {
	d, ok := c.Get(id)
	if !ok {
		return c.Copy(), Drawing{}, false
	}
	clone := Clone(d, newID, interval)
	return c.Add(clone), clone, true
}

// Copy returns a deep copy of the collection
func (c Collection) Copy() Collection {
	if c == nil {
		return nil
	}
	return lo.Map(c, func(d Drawing, _ int) Drawing { return d.Copy() })
}

// HitTest walks the drawings front to back and returns the first hit
func (c Collection) HitTest(at core.Pixel, p Projector, tol Tolerance) (Hit, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if hit, ok := HitTest(c[i], at, p, tol); ok {
			return hit, true
		}
	}
	return Hit{}, false
}

func (c Collection) update(id string, fn func(Drawing) Drawing) Collection {
	return lo.Map(c, func(d Drawing, _ int) Drawing {
		if d.ID == id {
			return fn(d)
		}
		return d
	})
}
