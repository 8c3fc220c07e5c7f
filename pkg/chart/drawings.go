package chart

import (
	"github.com/raykavin/chartcore/pkg/alert"
	"github.com/raykavin/chartcore/pkg/core"
	"github.com/raykavin/chartcore/pkg/drawing"
)

// AddDrawing commits and appends a finished drawing
func (s *Session) AddDrawing(d drawing.Drawing) {
	if d.ID == "" {
		d.ID = s.newID()
	}
	s.Commit()
	s.drawings = s.drawings.Add(d.Copy())
	s.log.WithField("drawing", d.ID).Debugf("added %s", d.Kind())
	s.emitDrawings()
}

// UpdateDrawing commits and replaces a drawing
func (s *Session) UpdateDrawing(d drawing.Drawing) bool {
	if !s.drawings.Has(d.ID) {
		return false
	}
	s.Commit()
	s.StoreDrawing(d)
	return true
}

// StoreDrawing replaces a drawing without committing. Gestures that already
// committed at their start use it to write their result.
func (s *Session) StoreDrawing(d drawing.Drawing) {
	s.drawings = s.drawings.Replace(d.Copy())
	s.emitDrawings()
}

// UpdateStyle commits and restyles a drawing
func (s *Session) UpdateStyle(id string, style drawing.Style) bool {
	return s.mutateDrawing(id, func(c drawing.Collection) drawing.Collection {
		return c.UpdateStyle(id, style)
	})
}

// ToggleVisibility commits and shows or hides a drawing
func (s *Session) ToggleVisibility(id string) bool {
	return s.mutateDrawing(id, func(c drawing.Collection) drawing.Collection {
		return c.ToggleVisibility(id)
	})
}

// SetLocked commits and locks or unlocks a drawing
func (s *Session) SetLocked(id string, locked bool) bool {
	return s.mutateDrawing(id, func(c drawing.Collection) drawing.Collection {
		return c.SetLocked(id, locked)
	})
}

// SetText commits and replaces the text of a note or callout
func (s *Session) SetText(id, text string) bool {
	return s.mutateDrawing(id, func(c drawing.Collection) drawing.Collection {
		return c.SetText(id, text)
	})
}

// BringToFront commits and raises a drawing to the top
func (s *Session) BringToFront(id string) bool {
	return s.mutateDrawing(id, func(c drawing.Collection) drawing.Collection {
		return c.BringToFront(id)
	})
}

// SendToBack commits and lowers a drawing to the bottom
func (s *Session) SendToBack(id string) bool {
	return s.mutateDrawing(id, func(c drawing.Collection) drawing.Collection {
		return c.SendToBack(id)
	})
}

// CloneDrawing commits and duplicates a drawing one candle later
func (s *Session) CloneDrawing(id string) (drawing.Drawing, bool) {
	if !s.drawings.Has(id) {
		return drawing.Drawing{}, false
	}
	s.Commit()
	next, clone, _ := s.drawings.Clone(id, s.newID(), s.viewport.CandleInterval())
	s.drawings = next
	s.selected = clone.ID
	s.emitDrawings()
	return clone, true
}

// DeleteDrawing commits, removes a drawing and deletes its alert
func (s *Session) DeleteDrawing(id string) bool {
	if !s.drawings.Has(id) {
		return false
	}
	s.Commit()
	s.drawings = s.drawings.Delete(id)
	if s.selected == id {
		s.selected = ""
	}

	for _, a := range s.alerts.DeleteByDrawing(id) {
		s.alertLog.Record(alert.Entry{AlertID: a.ID, Type: alert.EntryClosedDeleted})
		s.persister.RemoveAlert(a.ID)
	}

	s.log.WithField("drawing", id).Debug("deleted drawing")
	s.emitDrawings()
	return true
}

// DeleteSelected removes the selected drawing
func (s *Session) DeleteSelected() bool {
	if s.selected == "" {
		return false
	}
	return s.DeleteDrawing(s.selected)
}

// HitTest returns the topmost drawing part under a pixel
func (s *Session) HitTest(px core.Pixel) (drawing.Hit, bool) {
	return s.drawings.HitTest(px, s.viewport, s.Tolerance())
}

func (s *Session) mutateDrawing(id string, fn func(drawing.Collection) drawing.Collection) bool {
	if !s.drawings.Has(id) {
		return false
	}
	s.Commit()
	s.drawings = fn(s.drawings)
	s.emitDrawings()
	return true
}
