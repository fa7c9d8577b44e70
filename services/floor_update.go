package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"building-backend/models"
)

func applyFloorDefaults(floor *models.Floor) {
	if floor.ID == "" {
		floor.ID = uuid.NewString()
	}
	if floor.Color == "" {
		floor.Color = models.DefaultFloorColor
	}
	if floor.Benefits == nil {
		floor.Benefits = []string{}
	}
}

// applyFloorUpdate merges caller-supplied fields into the floor, one field at
// a time against an explicit allow-list. Store-internal keys and the floor id
// are never writable. A present level field must coerce to a number or the
// whole update is rejected.
func applyFloorUpdate(floor *models.Floor, fields map[string]any) error {
	if raw, ok := fields["level"]; ok {
		level, err := coerceLevel(raw)
		if err != nil {
			return err
		}
		floor.Level = level
	}

	for key, val := range fields {
		switch key {
		case "name":
			if s, ok := val.(string); ok {
				floor.Name = s
			}
		case "price":
			if s, ok := val.(string); ok {
				floor.Price = s
			}
		case "size":
			if s, ok := val.(string); ok {
				floor.Size = s
			}
		case "description":
			if s, ok := val.(string); ok {
				floor.Description = s
			}
		case "mapUrl":
			if s, ok := val.(string); ok {
				floor.MapURL = s
			}
		case "color":
			if s, ok := val.(string); ok {
				floor.Color = s
			}
		case "benefits":
			floor.Benefits = toStringSlice(val)
		}
	}
	return nil
}

// coerceLevel turns the decoded JSON value of the level field into an int.
// Missing, null, empty and non-numeric values are rejected rather than
// coerced to zero.
func coerceLevel(val any) (int, error) {
	switch v := val.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, NewValidationError("Level must be a valid number")
		}
		return int(v), nil
	case int:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, NewValidationError("Level must be a valid number")
		}
		return int(f), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, NewValidationError("Level must be a valid number")
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, NewValidationError("Level must be a valid number")
		}
		return int(f), nil
	default:
		return 0, NewValidationError("Level must be a valid number")
	}
}

// buildingSetDoc enumerates the caller-writable building fields into a $set
// document. Anything not listed here (id, floors, timestamps, _id) cannot be
// written through a building update.
func buildingSetDoc(upd models.BuildingUpdate) bson.M {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.ModelPath != nil {
		set["modelPath"] = *upd.ModelPath
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.TotalFloors != nil {
		set["totalFloors"] = *upd.TotalFloors
	}
	if upd.Possession != nil {
		set["possession"] = *upd.Possession
	}
	if upd.Features != nil {
		set["features"] = *upd.Features
	}
	return set
}

func toStringSlice(val any) []string {
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
