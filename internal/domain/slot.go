package domain

import (
	"fmt"
	"strings"
)

type Slot int

const (
	Flower Slot = iota
	Plume
	Sands
	Goblet
	Circlet
)

const SlotCount = 5

var slotKeys = [SlotCount]string{"flower", "plume", "sands", "goblet", "circlet"}

func (s Slot) String() string {
	if s < 0 || int(s) >= SlotCount {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return slotKeys[s]
}

// ParseSlot maps a GOOD slot key to a Slot.
func ParseSlot(key string) (Slot, error) {
	k := strings.TrimSpace(key)
	for i, v := range slotKeys {
		if v == k {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("unsupported slot %q (supported: %s)", key, strings.Join(slotKeys[:], ", "))
}
