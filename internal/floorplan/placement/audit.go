package placement

import (
	"fmt"

	"restaurant-floor/internal/floorplan/models"
)

// ============================================================
// Document Audit
// ============================================================

// Violation нарушение инварианта документа.
type Violation struct {
	ItemID  string `json:"itemId"`
	OtherID string `json:"otherId,omitempty"`
	Reason  string `json:"reason"`
}

func (v Violation) String() string {
	if v.OtherID != "" {
		return fmt.Sprintf("%s: %s / %s", v.Reason, v.ItemID, v.OtherID)
	}
	return fmt.Sprintf("%s: %s", v.Reason, v.ItemID)
}

const (
	ViolationMissingID   = "missing-id"
	ViolationDuplicateID = "duplicate-id"
	ViolationOutOfBounds = "out-of-bounds"
)

// Audit проверяет весь документ: границы, маску, пересечения и уникальность id.
// Используется при сохранении документа, пришедшего извне.
func Audit(l *models.GridLayout) []Violation {
	var out []Violation
	items := l.Items()
	seen := make(map[string]bool, len(items))

	for i, item := range items {
		switch {
		case item.ID == "":
			out = append(out, Violation{Reason: ViolationMissingID})
		case seen[item.ID]:
			out = append(out, Violation{ItemID: item.ID, Reason: ViolationDuplicateID})
		}
		seen[item.ID] = true

		r := item.Rect
		inside := r.X >= 0 && r.Y >= 0 && r.Right() <= l.Cols && r.Bottom() <= l.Rows
		if !inside {
			out = append(out, Violation{ItemID: item.ID, Reason: ViolationOutOfBounds})
		}
		if !item.Collides {
			continue
		}
		// за пределами сетки маска не определена, но пересечения проверяются
		if inside && !MaskAllows(l, r.X, r.Y, r.W, r.H) {
			out = append(out, Violation{ItemID: item.ID, Reason: string(ReasonOutsideShape)})
		}
		for _, other := range items[i+1:] {
			if other.Collides && r.Overlaps(other.Rect) {
				out = append(out, Violation{ItemID: item.ID, OtherID: other.ID, Reason: string(ReasonCollision)})
			}
		}
	}
	return out
}
