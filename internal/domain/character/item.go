package character

import "github.com/Anomanderiz/wdh-character-vault/internal/domain/shared"

// ItemTypeClass marks the item entries that carry class levels
const ItemTypeClass = "class"

// AttunementAttuned is the attunement state that means the item is attuned
const AttunementAttuned = 2

// ArmorCategory is the armor type exported on equipment items
type ArmorCategory string

const (
	ArmorCategoryLight   ArmorCategory = "light"
	ArmorCategoryMedium  ArmorCategory = "medium"
	ArmorCategoryHeavy   ArmorCategory = "heavy"
	ArmorCategoryNatural ArmorCategory = "natural"
	ArmorCategoryShield  ArmorCategory = "shield"
	ArmorCategoryUnknown ArmorCategory = ""
)

// ArmorData is the armor block of an equipment item.
// DexCap is nil when the item declares no cap.
type ArmorData struct {
	Category     ArmorCategory
	Value        float64
	MagicalBonus float64
	DexCap       *float64
}

// Item is one entry of the exported items list
type Item struct {
	ID         string
	Name       string
	Type       string
	Equipped   bool
	Attunement int
	Levels     int
	Armor      ArmorData
	Effects    []*shared.ActiveEffect
}

// IsClass reports whether the item is a class entry
func (i *Item) IsClass() bool {
	return i.Type == ItemTypeClass
}

// IsAttuned reports whether the item's attunement state is the attuned sentinel
func (i *Item) IsAttuned() bool {
	return i.Attunement == AttunementAttuned
}

// IsShield reports whether the item is a shield
func (i *Item) IsShield() bool {
	return i.Armor.Category == ArmorCategoryShield
}

// IsArmor reports whether the item is body armor (any non-shield armor category)
func (i *Item) IsArmor() bool {
	switch i.Armor.Category {
	case ArmorCategoryLight, ArmorCategoryMedium, ArmorCategoryHeavy, ArmorCategoryNatural:
		return true
	default:
		return false
	}
}

// ArmorTotal is the armor value plus its magical bonus
func (i *Item) ArmorTotal() float64 {
	return i.Armor.Value + i.Armor.MagicalBonus
}
