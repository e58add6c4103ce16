package domain

type Attribute struct {
	Key   string
	Value float64
}

// Item is a single artifact. Items are never modified after a catalog loads them.
type Item struct {
	Slot        Slot
	SetKey      string
	Rarity      int
	Level       int
	MainStatKey string
	Substats    []Attribute
}

// Pools holds the candidate items per slot, indexed by Slot.
type Pools [SlotCount][]Item

func (p *Pools) Add(it Item) {
	p[it.Slot] = append(p[it.Slot], it)
}

func (p *Pools) Sizes() []int {
	out := make([]int, SlotCount)
	for i := range p {
		out[i] = len(p[i])
	}
	return out
}

// Combinations returns the size of the cartesian product of all pools.
func (p *Pools) Combinations() int {
	total := 1
	for i := range p {
		total *= len(p[i])
	}
	return total
}

// FirstEmpty returns the first slot without candidates.
func (p *Pools) FirstEmpty() (Slot, bool) {
	for i := range p {
		if len(p[i]) == 0 {
			return Slot(i), true
		}
	}
	return 0, false
}

func (p *Pools) Total() int {
	n := 0
	for i := range p {
		n += len(p[i])
	}
	return n
}

// Combination is one complete build: one item per slot, in slot order.
type Combination []Item

func (c Combination) Clone() Combination {
	if c == nil {
		return nil
	}
	out := make(Combination, len(c))
	copy(out, c)
	return out
}

// SetCounts counts how many items of each set the combination contains.
func (c Combination) SetCounts() map[string]int {
	out := make(map[string]int, len(c))
	for _, it := range c {
		out[it.SetKey]++
	}
	return out
}
