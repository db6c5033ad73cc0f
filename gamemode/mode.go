package gamemode

// Mode is a game mode selectable in the lobby vote.
type Mode interface {
	Name() string
}

// Hooked modes are notified when they become active and when the game ends.
type Hooked interface {
	Mode
	SetHooks()
	UnsetHooks()
}

// Base plays like vanilla with a few switchable behaviors. Embed it to build
// custom modes.
type Base struct {
	ModeName string

	AllowVanillaSpawnMobs          bool
	AllowVanillaInteractableSpawns bool
	AllowVanillaTeleport           bool
	AllowVanillaGameOver           bool

	BannedItems      map[string]struct{}
	BannedEquipments map[string]struct{}
}

// NewBase returns a mode with every vanilla behavior allowed.
func NewBase(name string) *Base {
	return &Base{
		ModeName:                       name,
		AllowVanillaSpawnMobs:          true,
		AllowVanillaInteractableSpawns: true,
		AllowVanillaTeleport:           true,
		AllowVanillaGameOver:           true,
		BannedItems:                    make(map[string]struct{}),
		BannedEquipments:               make(map[string]struct{}),
	}
}

func (b *Base) Name() string {
	return b.ModeName
}

func (b *Base) BanItem(item string) {
	b.BannedItems[item] = struct{}{}
}

func (b *Base) IsItemBanned(item string) bool {
	_, ok := b.BannedItems[item]
	return ok
}

func (b *Base) BanEquipment(equipment string) {
	b.BannedEquipments[equipment] = struct{}{}
}

func (b *Base) IsEquipmentBanned(equipment string) bool {
	_, ok := b.BannedEquipments[equipment]
	return ok
}
