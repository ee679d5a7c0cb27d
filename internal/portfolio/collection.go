package portfolio

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no instrument has the requested id.
	ErrNotFound = errors.New("instrument not found")
	// ErrDuplicateID is returned when adding an instrument whose id is taken.
	ErrDuplicateID = errors.New("duplicate instrument id")
	// ErrNilInstrument is returned when a nil instrument is supplied.
	ErrNilInstrument = errors.New("instrument cannot be nil")
)

// Collection is the user's ordered list of instruments. Ids are unique.
// A Collection is not safe for concurrent use.
type Collection struct {
	items []Instrument
	index map[string]int
}

// NewCollection builds a collection from existing instruments, assigning ids
// to those that have none.
func NewCollection(instruments ...Instrument) (*Collection, error) {
	c := &Collection{index: make(map[string]int)}
	for _, inst := range instruments {
		if _, err := c.Add(inst); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends an instrument and returns the stored copy. An empty id is
// replaced with a fresh UUID.
func (c *Collection) Add(inst Instrument) (Instrument, error) {
	if inst == nil {
		return nil, ErrNilInstrument
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}

	meta := inst.Metadata()
	if meta.ID == "" {
		meta.ID = uuid.NewString()
		inst = inst.withMeta(meta)
	}
	if _, exists := c.index[meta.ID]; exists {
		return nil, fmt.Errorf("add %q: %w", meta.ID, ErrDuplicateID)
	}

	c.index[meta.ID] = len(c.items)
	c.items = append(c.items, inst)
	return inst, nil
}

// Update replaces the instrument with the given id, keeping the id and the
// position. The replacement may be of a different kind.
func (c *Collection) Update(id string, inst Instrument) (Instrument, error) {
	if inst == nil {
		return nil, ErrNilInstrument
	}
	pos, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}

	meta := inst.Metadata()
	meta.ID = id
	inst = inst.withMeta(meta)
	c.items[pos] = inst
	return inst, nil
}

// Remove deletes the instrument with the given id.
func (c *Collection) Remove(id string) error {
	pos, ok := c.index[id]
	if !ok {
		return fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}

	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.index, id)
	for i := pos; i < len(c.items); i++ {
		c.index[c.items[i].Metadata().ID] = i
	}
	return nil
}

// Get returns the instrument with the given id.
func (c *Collection) Get(id string) (Instrument, bool) {
	pos, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.items[pos], true
}

// SetCAGR overwrites the growth rate of an instrument.
func (c *Collection) SetCAGR(id string, cagr float64) (Instrument, error) {
	pos, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("set cagr %q: %w", id, ErrNotFound)
	}

	meta := c.items[pos].Metadata()
	meta.CAGR = cagr
	c.items[pos] = c.items[pos].withMeta(meta)
	return c.items[pos], nil
}

// AdjustCAGR moves the growth rate by delta percentage points, stopping at 0.
func (c *Collection) AdjustCAGR(id string, delta float64) (Instrument, error) {
	inst, ok := c.Get(id)
	if !ok {
		return nil, fmt.Errorf("adjust cagr %q: %w", id, ErrNotFound)
	}

	next := inst.Metadata().CAGR + delta
	if next < 0 {
		next = 0
	}
	return c.SetCAGR(id, next)
}

// Instruments returns a copy of the instruments in insertion order.
func (c *Collection) Instruments() []Instrument {
	out := make([]Instrument, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of instruments.
func (c *Collection) Len() int {
	return len(c.items)
}
