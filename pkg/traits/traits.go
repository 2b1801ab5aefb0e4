// Package traits derives deterministic creature traits from a wallet address.
//
// The derivation is part of the external contract: the hash algorithm, slice
// offsets and value-list ordering must never change, or already-minted tokens
// stop matching their seeds.
package traits

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyInput is returned when the owner key or seed is empty.
var ErrEmptyInput = errors.New("empty input")

// SeedLength is the number of hex characters in a seed.
const SeedLength = 16

var (
	colors      = []string{"Green", "Blue", "Red", "Yellow", "Purple", "Orange", "Pink", "Cyan"}
	eyeStyles   = []string{"Round", "Narrow", "Wide", "Sleepy", "Angry", "Happy", "Surprised", "Winking"}
	mouths      = []string{"Smile", "Grin", "Neutral", "Open", "Tongue", "Frown", "Whistle", "Teeth"}
	backgrounds = []string{"Sky", "Forest", "Ocean", "Mountain", "City", "Desert", "Space", "Abstract"}
)

// TraitSet holds the four enumerated visual attributes of a creature.
type TraitSet struct {
	Color      string `json:"color"`
	Eyes       string `json:"eyes"`
	Mouth      string `json:"mouth"`
	Background string `json:"bg"`
}

// Attributes returns the trait set as NFT metadata attribute pairs, in a
// fixed order.
func (t TraitSet) Attributes() []Attribute {
	return []Attribute{
		{TraitType: "color", Value: t.Color},
		{TraitType: "eyes", Value: t.Eyes},
		{TraitType: "mouth", Value: t.Mouth},
		{TraitType: "bg", Value: t.Background},
	}
}

// Attribute is a single metadata attribute entry.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// DeriveSeed hashes the lower-cased owner key with SHA-256 and returns the
// first 16 hex characters.
func DeriveSeed(ownerKey string) (string, error) {
	if ownerKey == "" {
		return "", ErrEmptyInput
	}
	sum := sha256.Sum256([]byte(strings.ToLower(ownerKey)))
	return hex.EncodeToString(sum[:])[:SeedLength], nil
}

// DeriveTraits re-hashes the seed and picks each trait dimension from a fixed
// 2-hex-digit slice of the digest, reduced modulo the dimension's cardinality.
func DeriveTraits(seed string) (TraitSet, error) {
	if seed == "" {
		return TraitSet{}, ErrEmptyInput
	}
	sum := sha256.Sum256([]byte(seed))
	digest := hex.EncodeToString(sum[:])

	return TraitSet{
		Color:      pick(colors, digest[0:2]),
		Eyes:       pick(eyeStyles, digest[2:4]),
		Mouth:      pick(mouths, digest[4:6]),
		Background: pick(backgrounds, digest[6:8]),
	}, nil
}

func pick(values []string, hexSlice string) string {
	n, err := strconv.ParseUint(hexSlice, 16, 16)
	if err != nil {
		// Unreachable: slices come from a hex-encoded digest.
		n = 0
	}
	return values[n%uint64(len(values))]
}

// BuildPrompt renders the image-generation prompt for a trait set. The fixed
// base keeps the collection visually coherent; only the trait dimensions vary.
func BuildPrompt(t TraitSet, theme string) string {
	if theme == "" {
		theme = "frog"
	}
	return fmt.Sprintf(
		"Hyper-realistic portrait of original lifelike %s creature. "+
			"Fixed base: big expressive eyes with natural reflections, rounded soft body, "+
			"realistic skin texture, humanoid stance, gentle smile. "+
			"Varies: body color=%s, eye style=%s, expression=%s, background=%s. "+
			"Photo-realistic, volumetric lighting, cinematic bokeh, soft focus, "+
			"ultra detailed eyes, expressive face, realistic skin texture, emotional depth, "+
			"8k render, unreal engine realism, studio photo composition, "+
			"shallow depth of field, 1024x1024, no text.",
		theme, t.Color, t.Eyes, t.Mouth, t.Background,
	)
}

// CreatureName returns the display name for a creature: a stable number from
// the owner key hash plus its two leading traits.
func CreatureName(ownerKey string, t TraitSet) string {
	sum := sha256.Sum256([]byte(strings.ToLower(ownerKey)))
	digest := hex.EncodeToString(sum[:])
	n, _ := strconv.ParseUint(digest[0:4], 16, 32)
	return fmt.Sprintf("Aura Creature #%d - %s %s", n%1000, t.Color, t.Eyes)
}
