package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AssetKind describes one binary asset resource (sprites, audio).
// The same asset code is instantiated once per kind.
type AssetKind struct {
	// Name is the singular resource name used in messages ("sprite")
	Name string
	// Label is the capitalized name used in response messages ("Sprite")
	Label string
	// Collection is the MongoDB collection holding the documents
	Collection string
	// ContentTypePrefix is the MIME prefix every stored content type must have
	ContentTypePrefix string
	// DefaultContentType is reported for documents stored without a content type
	DefaultContentType string
}

var (
	// SpriteKind holds image assets
	SpriteKind = AssetKind{
		Name:               "sprite",
		Label:              "Sprite",
		Collection:         "sprites",
		ContentTypePrefix:  "image/",
		DefaultContentType: "image/png",
	}
	// AudioKind holds sound clips
	AudioKind = AssetKind{
		Name:               "audio",
		Label:              "Audio file",
		Collection:         "audio",
		ContentTypePrefix:  "audio/",
		DefaultContentType: "audio/mpeg",
	}
)

// Asset represents a sprite or audio document
type Asset struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Filename    string             `bson:"filename" json:"filename"`
	Content     []byte             `bson:"content,omitempty" json:"-"`
	ContentType string             `bson:"content_type,omitempty" json:"content_type,omitempty"`
}

// AssetUpload is the payload of an upload or update request
type AssetUpload struct {
	Filename    string
	Content     []byte
	ContentType string
}

// AssetMetadata is returned by single-asset reads; content is never included
type AssetMetadata struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// AssetSummary is an item of an asset search result
type AssetSummary struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}
