package directory

import "guildbank/internal/domain"

// Character fields are edited through this explicit whitelist of typed
// updates. There is deliberately no "set any attribute by name" surface;
// the account number in particular is never editable.

// Rename changes a character's unique short name.
func (d *Directory) Rename(characterID uint, name string) error {
	return d.update(characterID, func(c *domain.Character) { c.Name = name })
}

// SetDisplayName changes the name shown when speaking in character.
func (d *Directory) SetDisplayName(characterID uint, displayName string) error {
	return d.update(characterID, func(c *domain.Character) { c.DisplayName = displayName })
}

// SetPictureURL changes the character's portrait.
func (d *Directory) SetPictureURL(characterID uint, pictureURL string) error {
	return d.update(characterID, func(c *domain.Character) { c.PictureURL = pictureURL })
}

// SetNPC flips the non-player-character flag.
func (d *Directory) SetNPC(characterID uint, npc bool) error {
	return d.update(characterID, func(c *domain.Character) { c.NPC = npc })
}

// SetLevel sets the character level; nil clears it.
func (d *Directory) SetLevel(characterID uint, level *int) error {
	return d.update(characterID, func(c *domain.Character) { c.Level = level })
}

// SetRank sets the guild rank role; nil clears it. Rank changes are an
// admin operation, which is enforced by the command layer.
func (d *Directory) SetRank(characterID uint, rank *uint) error {
	return d.update(characterID, func(c *domain.Character) { c.Rank = rank })
}

func (d *Directory) update(characterID uint, mutate func(*domain.Character)) error {
	c, err := d.characters.Get(characterID)
	if err != nil {
		return err
	}
	mutate(c)
	return d.characters.Save(c)
}
