package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Score represents a player score document
type Score struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlayerName string             `bson:"player_name" json:"player_name"`
	Score      int64              `bson:"score" json:"score"`
}

// ScoreRequest is the body of score create and update requests.
// Pointers distinguish missing fields from zero values.
type ScoreRequest struct {
	PlayerName *string `json:"player_name"`
	Score      *int64  `json:"score"`
}

// ScoreInput is a validated score payload
type ScoreInput struct {
	PlayerName string
	Score      int64
}
