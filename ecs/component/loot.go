package component

// ChipSize orders microchip sizes from smallest to biggest.
type ChipSize int

const (
	ChipSmall ChipSize = iota
	ChipMedium
	ChipLarge
	ChipHuge
)

var chipNames = [...]string{"small", "medium", "large", "huge"}

func (s ChipSize) String() string {
	if s < 0 || int(s) >= len(chipNames) {
		return "unknown"
	}
	return chipNames[s]
}

// ParseChipSize maps a prefab name to a size.
func ParseChipSize(name string) (ChipSize, bool) {
	for i, n := range chipNames {
		if n == name {
			return ChipSize(i), true
		}
	}
	return ChipSmall, false
}

// Value is the score a collected chip is worth before the combo multiplier.
func (s ChipSize) Value() int {
	switch s {
	case ChipMedium:
		return 25
	case ChipLarge:
		return 50
	case ChipHuge:
		return 100
	default:
		return 10
	}
}

// Loot is an enemy's microchip drop table. Chance is a percentage.
type Loot struct {
	Chance   float64
	Min      int
	Max      int
	Smallest ChipSize
	Biggest  ChipSize
}

// Microchip is a collectible dropped by dying enemies.
type Microchip struct {
	Size ChipSize
}

var MicrochipComponent = NewComponent[Microchip]()
