package enka

import (
	"fmt"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

var equipTypeToSlot = map[string]domain.Slot{
	"EQUIP_BRACER":   domain.Flower,
	"EQUIP_NECKLACE": domain.Plume,
	"EQUIP_SHOES":    domain.Sands,
	"EQUIP_RING":     domain.Goblet,
	"EQUIP_DRESS":    domain.Circlet,
}

// UnmappedSetError reports a set name hash missing from enka_set_names.
// Artifacts of that set are still converted with the hash as their set key.
type UnmappedSetError struct {
	Hash string
}

func (e *UnmappedSetError) Error() string {
	return fmt.Sprintf("set hash %q not in enka_set_names; kept as set key", e.Hash)
}

// ToItems converts every equipped artifact of the given characters into an
// item. setNames maps Enka set name hashes to set keys; unmapped hashes are
// kept as-is and reported once each as an *UnmappedSetError. Artifacts that
// cannot be converted are returned as warnings.
func ToItems(avatars []AvatarInfo, setNames map[string]string) ([]domain.Item, []error) {
	var items []domain.Item
	var warns []error
	unmapped := map[string]bool{}

	for _, a := range avatars {
		for _, it := range a.EquipList {
			if it.Flat.ItemType != "ITEM_RELIQUARY" {
				continue
			}
			item, err := convertRelic(it, setNames)
			if err != nil {
				warns = append(warns, fmt.Errorf("avatar %d item %d: %w", a.AvatarID, it.ItemID, err))
				continue
			}
			if h := it.Flat.SetNameTextMapHash; !unmapped[h] {
				if _, ok := setNames[h]; !ok {
					unmapped[h] = true
					warns = append(warns, &UnmappedSetError{Hash: h})
				}
			}
			items = append(items, item)
		}
	}
	return items, warns
}

func convertRelic(it EquipItem, setNames map[string]string) (domain.Item, error) {
	slot, ok := equipTypeToSlot[it.Flat.EquipType]
	if !ok {
		return domain.Item{}, fmt.Errorf("unrecognized equip type %q", it.Flat.EquipType)
	}
	if it.Flat.ReliquaryMainstat == nil {
		return domain.Item{}, fmt.Errorf("missing main stat")
	}
	mainKey := fightPropToGOODKey(it.Flat.ReliquaryMainstat.MainPropID)
	if mainKey == "" {
		return domain.Item{}, fmt.Errorf("unrecognized main stat %q", it.Flat.ReliquaryMainstat.MainPropID)
	}

	set := it.Flat.SetNameTextMapHash
	if key, ok := setNames[set]; ok {
		set = key
	}

	// Enka levels start at 1 for a +0 artifact.
	lvl := 0
	if it.Reliquary != nil && it.Reliquary.Level > 0 {
		lvl = it.Reliquary.Level - 1
	}

	subs := make([]domain.Attribute, 0, len(it.Flat.ReliquarySubstats))
	for _, sub := range it.Flat.ReliquarySubstats {
		k := fightPropToGOODKey(sub.AppendPropID)
		if k == "" {
			return domain.Item{}, fmt.Errorf("unrecognized substat %q", sub.AppendPropID)
		}
		subs = append(subs, domain.Attribute{Key: k, Value: sub.StatValue})
	}

	return domain.Item{
		Slot:        slot,
		SetKey:      set,
		Rarity:      it.Flat.RankLevel,
		Level:       lvl,
		MainStatKey: mainKey,
		Substats:    subs,
	}, nil
}

func fightPropToGOODKey(fightProp string) string {
	switch fightProp {
	case "FIGHT_PROP_HP":
		return "hp"
	case "FIGHT_PROP_HP_PERCENT":
		return "hp_"
	case "FIGHT_PROP_ATTACK":
		return "atk"
	case "FIGHT_PROP_ATTACK_PERCENT":
		return "atk_"
	case "FIGHT_PROP_DEFENSE":
		return "def"
	case "FIGHT_PROP_DEFENSE_PERCENT":
		return "def_"
	case "FIGHT_PROP_CHARGE_EFFICIENCY":
		return "enerRech_"
	case "FIGHT_PROP_ELEMENT_MASTERY":
		return "eleMas"
	case "FIGHT_PROP_CRITICAL":
		return "critRate_"
	case "FIGHT_PROP_CRITICAL_HURT":
		return "critDMG_"
	case "FIGHT_PROP_HEAL_ADD":
		return "heal_"
	case "FIGHT_PROP_FIRE_ADD_HURT":
		return "pyro_dmg_"
	case "FIGHT_PROP_ELEC_ADD_HURT":
		return "electro_dmg_"
	case "FIGHT_PROP_ICE_ADD_HURT":
		return "cryo_dmg_"
	case "FIGHT_PROP_WATER_ADD_HURT":
		return "hydro_dmg_"
	case "FIGHT_PROP_WIND_ADD_HURT":
		return "anemo_dmg_"
	case "FIGHT_PROP_ROCK_ADD_HURT":
		return "geo_dmg_"
	case "FIGHT_PROP_GRASS_ADD_HURT":
		return "dendro_dmg_"
	case "FIGHT_PROP_PHYSICAL_ADD_HURT":
		return "physical_dmg_"
	default:
		return ""
	}
}
