package chain

import "errors"

// ErrVocabFull is returned by Intern when the interner was built with a
// fixed table capacity and every slot is occupied. Interners with a growable
// table (the default) never return it.
var ErrVocabFull = errors.New("chain: interning table full")

const (
	// defaultTableSize is the initial slot count for a growable table.
	// It must be a power of two so the probe sequence can use a mask.
	defaultTableSize = 1 << 15

	// The table is rehashed into double the slots once occupancy passes
	// loadFactorNum/loadFactorDen.
	loadFactorNum = 3
	loadFactorDen = 4
)

// Interner assigns a dense, zero-based id to every distinct token spelling,
// in first-occurrence order. The spelling->id index is an open-addressed
// slot array with linear probing; id->spelling is a plain slice, so the two
// directions form a bijection over the spellings seen so far.
type Interner struct {
	spellings []string // id -> spelling, in first-occurrence order
	slots     []int32  // open-addressed spelling index, -1 marks an empty slot
	fixed     bool     // when set, the table never grows
}

// InternerOption configures a new Interner.
type InternerOption func(*internerConfig)

type internerConfig struct {
	tableSize int
	fixed     bool
}

// WithTableSize sets the initial slot count. The value is rounded up to a
// power of two. Useful when the expected vocabulary size is known upfront
// and rehashing during training should be avoided.
func WithTableSize(n int) InternerOption {
	return func(c *internerConfig) { c.tableSize = n }
}

// WithFixedTable pins the table to exactly n slots (rounded up to a power
// of two) and disables growth. Once every slot is occupied, Intern returns
// ErrVocabFull instead of rehashing.
func WithFixedTable(n int) InternerOption {
	return func(c *internerConfig) {
		c.tableSize = n
		c.fixed = true
	}
}

// NewInterner creates an empty Interner.
func NewInterner(opts ...InternerOption) *Interner {
	cfg := &internerConfig{tableSize: defaultTableSize}
	for _, opt := range opts {
		opt(cfg)
	}

	size := 1
	for size < cfg.tableSize {
		size <<= 1
	}

	in := &Interner{
		slots: make([]int32, size),
		fixed: cfg.fixed,
	}
	for i := range in.slots {
		in.slots[i] = -1
	}
	return in
}

// hashSpelling is a djb2 variant: h = h*33 XOR c.
func hashSpelling(s string) uint64 {
	h := uint64(5381)
	for i := 0; i < len(s); i++ {
		h = ((h << 5) + h) ^ uint64(s[i])
	}
	return h
}

// Intern returns the id already assigned to spelling, or assigns the next
// sequential id to it. It is idempotent: repeated calls with the same
// spelling always return the same id.
func (in *Interner) Intern(spelling string) (int, error) {
	if !in.fixed && (len(in.spellings)+1)*loadFactorDen > len(in.slots)*loadFactorNum {
		in.grow()
	}

	mask := uint64(len(in.slots) - 1)
	i := hashSpelling(spelling) & mask
	// Probing is bounded by the slot count, so a full fixed table is
	// detected rather than looping forever.
	for probe := 0; probe < len(in.slots); probe++ {
		id := in.slots[i]
		if id < 0 {
			id = int32(len(in.spellings))
			in.spellings = append(in.spellings, spelling)
			in.slots[i] = id
			return int(id), nil
		}
		if in.spellings[id] == spelling {
			return int(id), nil
		}
		i = (i + 1) & mask
	}
	return 0, ErrVocabFull
}

// Lookup returns the id assigned to spelling, without ever assigning one.
func (in *Interner) Lookup(spelling string) (int, bool) {
	mask := uint64(len(in.slots) - 1)
	i := hashSpelling(spelling) & mask
	for probe := 0; probe < len(in.slots); probe++ {
		id := in.slots[i]
		if id < 0 {
			return 0, false
		}
		if in.spellings[id] == spelling {
			return int(id), true
		}
		i = (i + 1) & mask
	}
	return 0, false
}

// Spelling returns the spelling assigned to id. The id must have been
// returned by a previous Intern call.
func (in *Interner) Spelling(id int) string {
	return in.spellings[id]
}

// Len returns the number of distinct spellings interned so far.
func (in *Interner) Len() int {
	return len(in.spellings)
}

// grow rehashes every assigned id into a table with double the slots.
func (in *Interner) grow() {
	old := in.slots
	in.slots = make([]int32, len(old)*2)
	for i := range in.slots {
		in.slots[i] = -1
	}

	mask := uint64(len(in.slots) - 1)
	for _, id := range old {
		if id < 0 {
			continue
		}
		i := hashSpelling(in.spellings[id]) & mask
		for in.slots[i] >= 0 {
			i = (i + 1) & mask
		}
		in.slots[i] = id
	}
}
