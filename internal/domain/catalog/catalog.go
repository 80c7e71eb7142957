// Package catalog maps (event type, action type) codes to their descriptions
// and derives the free throw facts the possession and lineup logic need.
//
// A Catalog is immutable after New and safe for concurrent readers.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/possession/internal/domain/model"
)

// Free throw descriptions that are always a single attempt and carry no
// "N of M" suffix.
const (
	freeThrowTechnical = "Free Throw Technical"
	freeThrowClearPath = "Free Throw Clear Path"
)

// administrativeMarkers flag free throws that never change possession.
var administrativeMarkers = []string{"Technical", "Flagrant", "Clear Path"}

// Entry holds the descriptions of one event code.
type Entry struct {
	EventDescription  string
	ActionDescription string // may be empty
}

type key struct {
	kind   model.EventKind
	action int
}

// Catalog is the static event code lookup table.
type Catalog struct {
	entries map[key]Entry
}

// New builds a catalog from event code rows. Descriptions are trimmed.
func New(codes []model.EventCode) (*Catalog, error) {
	c := &Catalog{entries: make(map[key]Entry, len(codes))}
	for _, code := range codes {
		k := key{kind: code.Type, action: code.Action}
		if _, exists := c.entries[k]; exists {
			return nil, fmt.Errorf("%w: type %d action %d", ErrDuplicateCode, code.Type, code.Action)
		}
		c.entries[k] = Entry{
			EventDescription:  strings.TrimSpace(code.EventDescription),
			ActionDescription: strings.TrimSpace(code.ActionDescription),
		}
	}
	return c, nil
}

// Len returns the number of codes in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the entry for an event code.
func (c *Catalog) Lookup(kind model.EventKind, action int) (Entry, bool) {
	e, ok := c.entries[key{kind: kind, action: action}]
	return e, ok
}

// FreeThrowPosition returns the index n and total m of a free throw within its
// sequence.
func (c *Catalog) FreeThrowPosition(action int) (n, m int, err error) {
	e, ok := c.Lookup(model.KindFreeThrow, action)
	if !ok {
		return 0, 0, fmt.Errorf("%w: free throw action %d", ErrUnknownCode, action)
	}
	return ParseFreeThrow(e.ActionDescription)
}

// IsLastFreeThrow reports whether the free throw action ends its sequence.
func (c *Catalog) IsLastFreeThrow(action int) (bool, error) {
	n, m, err := c.FreeThrowPosition(action)
	if err != nil {
		return false, err
	}
	return n == m, nil
}

// IsAdministrative reports whether a free throw belongs to a technical,
// flagrant or clear path award.
func (c *Catalog) IsAdministrative(action int) (bool, error) {
	e, ok := c.Lookup(model.KindFreeThrow, action)
	if !ok {
		return false, fmt.Errorf("%w: free throw action %d", ErrUnknownCode, action)
	}
	for _, marker := range administrativeMarkers {
		if strings.Contains(e.ActionDescription, marker) {
			return true, nil
		}
	}
	return false, nil
}

// Describe renders a play for possession dumps.
func (c *Catalog) Describe(ev *model.Event) string {
	e, ok := c.Lookup(ev.Type, ev.Action)
	if !ok {
		return fmt.Sprintf("%s (action %d)", ev.Type, ev.Action)
	}
	switch {
	case e.ActionDescription != "":
		return e.EventDescription + ": " + e.ActionDescription
	case ev.Type == model.KindSubstitution:
		return e.EventDescription + ": " + ev.Person2
	default:
		return e.EventDescription
	}
}

// ParseFreeThrow extracts "N of M" from a free throw action description.
func ParseFreeThrow(desc string) (n, m int, err error) {
	desc = strings.TrimSpace(desc)
	if desc == freeThrowTechnical || desc == freeThrowClearPath {
		return 1, 1, nil
	}
	fields := strings.Fields(desc)
	if len(fields) < 3 || fields[len(fields)-2] != "of" {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadFreeThrowText, desc)
	}
	n, errN := strconv.Atoi(fields[len(fields)-3])
	m, errM := strconv.Atoi(fields[len(fields)-1])
	if errN != nil || errM != nil || n < 1 || m < n {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadFreeThrowText, desc)
	}
	return n, m, nil
}
