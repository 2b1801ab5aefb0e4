package entities

import "aura-creatures.backend/pkg/traits"

// GenerationResult is what a generation request returns. Preview carries a
// base64 data URL only for freshly generated images; for pre-existing records
// the gateway URL in ImageURI suffices.
type GenerationResult struct {
	Seed        string          `json:"seed"`
	Traits      traits.TraitSet `json:"traits"`
	ImageURI    string          `json:"imageUrl"`
	MetadataURI string          `json:"metadataUrl"`
	Preview     string          `json:"preview,omitempty"`
	Existing    bool            `json:"existing"`
}

// IdentityProfile is the verified identity returned by the OAuth provider.
type IdentityProfile struct {
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	Bio             string `json:"bio,omitempty"`
}
