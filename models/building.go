package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultFloorColor is applied when a floor payload omits the color field.
const DefaultFloorColor = "#f59e0b"

// Building is the top-level catalogue entity. Floors live embedded inside the
// building document and have no storage of their own. The public id field is
// distinct from Mongo's _id, which is never exposed to callers.
type Building struct {
	DBID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID          string             `bson:"id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	ModelPath   string             `bson:"modelPath" json:"modelPath"`
	Description string             `bson:"description" json:"description"`
	Location    string             `bson:"location" json:"location"`
	TotalFloors int                `bson:"totalFloors" json:"totalFloors"`
	Possession  string             `bson:"possession" json:"possession"`
	Features    []string           `bson:"features" json:"features"`
	Floors      []Floor            `bson:"floors" json:"floors"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Floor is embedded in exactly one Building and is only ever mutated through
// its parent.
type Floor struct {
	ID          string   `bson:"id" json:"id"`
	Level       int      `bson:"level" json:"level"`
	Name        string   `bson:"name" json:"name"`
	Price       string   `bson:"price" json:"price"`
	Size        string   `bson:"size" json:"size"`
	Description string   `bson:"description" json:"description"`
	MapURL      string   `bson:"mapUrl" json:"mapUrl"`
	Color       string   `bson:"color" json:"color"`
	Benefits    []string `bson:"benefits" json:"benefits"`
}

// BuildingUpdate carries the caller-writable fields of a building update.
// Fields left nil are kept as stored. Floors is captured only so the update
// path can reject it: the floors array must be mutated through the dedicated
// floor operations, never replaced wholesale.
type BuildingUpdate struct {
	Name        *string   `json:"name"`
	ModelPath   *string   `json:"modelPath"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	TotalFloors *int      `json:"totalFloors"`
	Possession  *string   `json:"possession"`
	Features    *[]string `json:"features"`
	Floors      []Floor   `json:"floors"`
	ID          *string   `json:"id"`
}

// FloorLookup is the public single-floor view: the floor itself plus the
// identity of the building that owns it.
type FloorLookup struct {
	Floor
	BuildingID   string `json:"buildingId"`
	BuildingName string `json:"buildingName"`
}
