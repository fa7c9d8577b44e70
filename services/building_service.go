package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"building-backend/models"
)

// BuildingService is the repository for buildings and their embedded floors.
// All floor mutation goes through the parent building document; floors never
// exist on their own.
type BuildingService struct {
	col *mongo.Collection
}

func NewBuildingService(db *mongo.Database) *BuildingService {
	return &BuildingService{col: db.Collection("buildings")}
}

// ListBuildings returns every building, newest first.
func (s *BuildingService) ListBuildings(ctx context.Context) ([]models.Building, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	buildings := []models.Building{}
	if err := cur.All(ctx, &buildings); err != nil {
		return nil, fmt.Errorf("decode buildings: %w", err)
	}
	return buildings, nil
}

func (s *BuildingService) GetBuilding(ctx context.Context, id string) (*models.Building, error) {
	res := s.col.FindOne(ctx, bson.M{"id": id})
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return nil, ErrBuildingNotFound
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("get building %s: %w", id, res.Err())
	}
	building := models.Building{}
	if err := res.Decode(&building); err != nil {
		return nil, fmt.Errorf("decode building %s: %w", id, err)
	}
	return &building, nil
}

// CreateBuilding inserts a new building. The id is generated when the caller
// omits one; a caller-supplied id that already exists fails against the unique
// index on the id field.
func (s *BuildingService) CreateBuilding(ctx context.Context, building *models.Building) (*models.Building, error) {
	if building.Name == "" {
		return nil, NewValidationError("name is required")
	}
	if building.Location == "" {
		return nil, NewValidationError("location is required")
	}
	if building.ModelPath == "" {
		return nil, NewValidationError("modelPath is required")
	}

	if building.ID == "" {
		building.ID = uuid.NewString()
	}
	if building.Features == nil {
		building.Features = []string{}
	}
	if building.Floors == nil {
		building.Floors = []models.Floor{}
	}
	for i := range building.Floors {
		applyFloorDefaults(&building.Floors[i])
	}

	now := time.Now().UTC()
	building.CreatedAt = now
	building.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, building); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateBuildingID
		}
		return nil, fmt.Errorf("insert building: %w", err)
	}
	return building, nil
}

// UpdateBuilding applies a shallow, allow-listed field update. The id is
// immutable and the floors array is rejected outright so that floor mutation
// always goes through the dedicated floor operations.
func (s *BuildingService) UpdateBuilding(ctx context.Context, id string, upd models.BuildingUpdate) (*models.Building, error) {
	if upd.Floors != nil {
		return nil, NewValidationError("floors cannot be replaced here; use the floor endpoints")
	}
	if upd.ID != nil && *upd.ID != id {
		return nil, NewValidationError("id cannot be changed")
	}

	set := buildingSetDoc(upd)
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := s.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts)
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return nil, ErrBuildingNotFound
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("update building %s: %w", id, res.Err())
	}
	building := models.Building{}
	if err := res.Decode(&building); err != nil {
		return nil, fmt.Errorf("decode building %s: %w", id, err)
	}
	return &building, nil
}

// DeleteBuilding removes the building and, with it, every embedded floor in a
// single store operation.
func (s *BuildingService) DeleteBuilding(ctx context.Context, id string) error {
	res := s.col.FindOneAndDelete(ctx, bson.M{"id": id})
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return ErrBuildingNotFound
	}
	if res.Err() != nil {
		return fmt.Errorf("delete building %s: %w", id, res.Err())
	}
	return nil
}

// AddFloor appends a floor to the parent's floors array with an atomic $push,
// so concurrent appends cannot lose each other.
func (s *BuildingService) AddFloor(ctx context.Context, buildingID string, floor models.Floor) (*models.Building, error) {
	applyFloorDefaults(&floor)

	update := bson.M{
		"$push": bson.M{"floors": floor},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := s.col.FindOneAndUpdate(ctx, bson.M{"id": buildingID}, update, opts)
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return nil, ErrBuildingNotFound
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("add floor to building %s: %w", buildingID, res.Err())
	}
	building := models.Building{}
	if err := res.Decode(&building); err != nil {
		return nil, fmt.Errorf("decode building %s: %w", buildingID, err)
	}
	return &building, nil
}

// UpdateFloor merges the given fields into one floor and writes the whole
// floors array back. This path is read-modify-write: two concurrent updates
// against the same building overwrite each other last-write-wins. The map-url
// path (UpdateFloorMapURL) is the atomic alternative for the upload pipeline.
func (s *BuildingService) UpdateFloor(ctx context.Context, buildingID, floorID string, fields map[string]any) (*models.Building, error) {
	building, err := s.GetBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range building.Floors {
		if building.Floors[i].ID == floorID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrFloorNotFound
	}

	if err := applyFloorUpdate(&building.Floors[idx], fields); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"floors": building.Floors, "updatedAt": now}}
	if _, err := s.col.UpdateOne(ctx, bson.M{"id": buildingID}, update); err != nil {
		return nil, fmt.Errorf("save floors of building %s: %w", buildingID, err)
	}
	building.UpdatedAt = now
	return building, nil
}

// UpdateFloorMapURL sets one floor's mapUrl with a positional update, touching
// nothing else in the document. Used by the upload pipeline after an asset has
// been persisted.
func (s *BuildingService) UpdateFloorMapURL(ctx context.Context, floorID, url string) (*models.Building, error) {
	update := bson.M{"$set": bson.M{
		"floors.$.mapUrl": url,
		"updatedAt":       time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := s.col.FindOneAndUpdate(ctx, bson.M{"floors.id": floorID}, update, opts)
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return nil, ErrFloorNotFound
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("update map url of floor %s: %w", floorID, res.Err())
	}
	building := models.Building{}
	if err := res.Decode(&building); err != nil {
		return nil, fmt.Errorf("decode building owning floor %s: %w", floorID, err)
	}
	return &building, nil
}

// DeleteFloor pulls the matching floor out of the parent's array atomically.
// A floor id that is already gone is not an error as long as the building
// exists.
func (s *BuildingService) DeleteFloor(ctx context.Context, buildingID, floorID string) (*models.Building, error) {
	update := bson.M{
		"$pull": bson.M{"floors": bson.M{"id": floorID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := s.col.FindOneAndUpdate(ctx, bson.M{"id": buildingID}, update, opts)
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return nil, ErrBuildingNotFound
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("delete floor %s of building %s: %w", floorID, buildingID, res.Err())
	}
	building := models.Building{}
	if err := res.Decode(&building); err != nil {
		return nil, fmt.Errorf("decode building %s: %w", buildingID, err)
	}
	return &building, nil
}

// FindFloor looks a floor up by id across all buildings and returns the first
// match together with its parent's identity. Floor ids are only unique within
// one building, so this is first-match by design.
func (s *BuildingService) FindFloor(ctx context.Context, floorID string) (*models.FloorLookup, error) {
	res := s.col.FindOne(ctx, bson.M{"floors.id": floorID})
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return nil, ErrFloorNotFound
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("find floor %s: %w", floorID, res.Err())
	}
	building := models.Building{}
	if err := res.Decode(&building); err != nil {
		return nil, fmt.Errorf("decode building owning floor %s: %w", floorID, err)
	}
	for i := range building.Floors {
		if building.Floors[i].ID == floorID {
			return &models.FloorLookup{
				Floor:        building.Floors[i],
				BuildingID:   building.ID,
				BuildingName: building.Name,
			}, nil
		}
	}
	return nil, ErrFloorNotFound
}
