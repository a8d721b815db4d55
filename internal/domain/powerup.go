package domain

import (
	"strings"
	"time"
)

// PowerUpType is the kind of in-stream advantage held by a supporter
type PowerUpType string

const (
	PowerUpTypeMagicMist  PowerUpType = "MAGIC_MIST"
	PowerUpTypeVaultGlove PowerUpType = "VAULT_GLOVE"
	PowerUpTypeNo2Booster PowerUpType = "NO2_BOOSTER"
	PowerUpTypeNo3Booster PowerUpType = "NO3_BOOSTER"
	PowerUpTypeStunHammer PowerUpType = "STUN_HAMMER"
	PowerUpTypeGlove      PowerUpType = "GLOVE"
	PowerUpTypeTimeMaker  PowerUpType = "TIME_MAKER"
)

// powerUpWindows is the validity window of each power-up type, in hours
var powerUpWindows = map[PowerUpType]int{
	PowerUpTypeMagicMist:  48,
	PowerUpTypeVaultGlove: 48,
	PowerUpTypeNo2Booster: 24,
	PowerUpTypeNo3Booster: 24,
	PowerUpTypeStunHammer: 72,
	PowerUpTypeGlove:      48,
	PowerUpTypeTimeMaker:  24,
}

// giftAliases lists the gift names the platform is known to send for each power-up
var giftAliases = map[PowerUpType][]string{
	PowerUpTypeMagicMist:  {"magic_mist", "Magic Mist"},
	PowerUpTypeVaultGlove: {"vault_glove", "Vault Glove"},
	PowerUpTypeNo2Booster: {"No.2_booster", "No.2 Booster"},
	PowerUpTypeNo3Booster: {"No.3_booster", "No.3 Booster"},
	PowerUpTypeStunHammer: {"stun_hammer", "Stun Hammer"},
	PowerUpTypeGlove:      {"glove", "Glove"},
	PowerUpTypeTimeMaker:  {"time_maker", "Time Maker"},
}

// AllPowerUpTypes returns every known power-up type
func AllPowerUpTypes() []PowerUpType {
	return []PowerUpType{
		PowerUpTypeMagicMist,
		PowerUpTypeVaultGlove,
		PowerUpTypeNo2Booster,
		PowerUpTypeNo3Booster,
		PowerUpTypeStunHammer,
		PowerUpTypeGlove,
		PowerUpTypeTimeMaker,
	}
}

// Valid reports whether the type is one of the known power-up types
func (t PowerUpType) Valid() bool {
	_, ok := powerUpWindows[t]
	return ok
}

// Window returns the validity window of the power-up type.
// Unknown types return zero.
func (t PowerUpType) Window() time.Duration {
	return time.Duration(powerUpWindows[t]) * time.Hour
}

// ExpiryAt returns the expiry timestamp for a power-up of this type awarded at awardedAt
func (t PowerUpType) ExpiryAt(awardedAt time.Time) time.Time {
	return awardedAt.Add(t.Window())
}

// GiftTable resolves platform gift names to power-up types.
// Lookups are case-insensitive and ignore separators, so "No.2_booster" and "No.2 Booster"
// resolve to the same entry.
type GiftTable struct {
	entries map[string]PowerUpType
}

// NewGiftTable builds the lookup table from the known gift aliases
func NewGiftTable() *GiftTable {
	table := &GiftTable{entries: make(map[string]PowerUpType)}
	for powerUpType, aliases := range giftAliases {
		for _, alias := range aliases {
			table.entries[NormalizeGiftName(alias)] = powerUpType
		}
	}
	return table
}

// Lookup returns the power-up type for a gift name
func (g *GiftTable) Lookup(giftName string) (PowerUpType, bool) {
	key := NormalizeGiftName(giftName)
	if key == "" {
		return "", false
	}
	t, ok := g.entries[key]
	return t, ok
}

// Len returns the number of normalized keys in the table
func (g *GiftTable) Len() int {
	return len(g.entries)
}

// NormalizeGiftName lower-cases the name and collapses whitespace, '_' and '-' into a single space
func NormalizeGiftName(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(name)), func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '_', '-':
			return true
		}
		return false
	})
	return strings.Join(fields, " ")
}

// LiveSource returns the source tag recorded on power-ups captured from a live room
func LiveSource(roomID string) string {
	if roomID == "" {
		roomID = UNKNOWN_ROOM_ID
	}
	return LIVE_SOURCE_PREFIX + roomID
}

// ViewerPlaceholderEmail returns the placeholder contact address used for viewers created from gifts
func ViewerPlaceholderEmail(handle string) string {
	return handle + "@" + VIEWER_PLACEHOLDER_EMAIL_DOMAIN
}
