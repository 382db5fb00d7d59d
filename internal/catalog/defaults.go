package catalog

// defaultCharacters mirrors the shipped roster. Only characters with an
// Ability carry rules beyond their base damage.
var defaultCharacters = []Character{
	{ID: "LEG_01", Name: "Cultista", Rarity: RarityLegendary, BaseDamage: 150, Ability: AbilityCultist,
		Description: "Gains power next to other cultists; fully surrounded it unleashes an area attack."},
	{ID: "LEG_02", Name: "Fada do Bosque", Rarity: RarityLegendary, BaseDamage: 50, Ability: AbilityForestFairy,
		Description: "Merges with any unit of the same level."},
	{ID: "LEG_03", Name: "Bobo da Corte", Rarity: RarityLegendary, BaseDamage: 50, Ability: AbilityJester,
		Description: "Dragged onto a unit of the same level, becomes a copy of it."},
	{ID: "EPI_01", Name: "Arqueiro Arcano", Rarity: RarityEpic, BaseDamage: 120},
	{ID: "EPI_02", Name: "Guardião Golem", Rarity: RarityEpic, BaseDamage: 90},
	{ID: "EPI_03", Name: "Mago do Teleporte", Rarity: RarityEpic, BaseDamage: 50, Ability: AbilityTeleportMage,
		Description: "Swaps places with a different unit of the same level."},
	{ID: "RAR_01", Name: "Mago de Gelo", Rarity: RarityRare, BaseDamage: 55},
	{ID: "RAR_02", Name: "Elemental de Fogo", Rarity: RarityRare, BaseDamage: 85},
	{ID: "RAR_03", Name: "Sacerdotisa", Rarity: RarityRare, BaseDamage: 50, Ability: AbilityPriestess,
		Description: "Grants mana when merged; the amount grows with level."},
	{ID: "RAR_04", Name: "Engenheiro", Rarity: RarityRare, BaseDamage: 100},
	{ID: "RAR_05", Name: "Ninja do Vento", Rarity: RarityRare, BaseDamage: 65},
	{ID: "COM_01", Name: "Espadachim", Rarity: RarityCommon, BaseDamage: 70},
	{ID: "COM_02", Name: "Arqueiro", Rarity: RarityCommon, BaseDamage: 75},
	{ID: "COM_03", Name: "Cavaleiro", Rarity: RarityCommon, BaseDamage: 55},
	{ID: "COM_04", Name: "Bombardeiro", Rarity: RarityCommon, BaseDamage: 65},
	{ID: "COM_05", Name: "Ladino", Rarity: RarityCommon, BaseDamage: 75},
	{ID: "COM_06", Name: "Lanceiro", Rarity: RarityCommon, BaseDamage: 70},
}

// DefaultDeckIDs is used when no deck is configured.
var DefaultDeckIDs = []string{"COM_01", "COM_02", "RAR_03", "LEG_02", "EPI_03"}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultCharacters)
	if err != nil {
		panic("catalog: invalid built-in roster: " + err.Error())
	}
	return c
}
