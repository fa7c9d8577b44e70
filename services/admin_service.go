package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"building-backend/models"
	"building-backend/utils"
)

// AdminService is the credential store. Passwords only ever exist here as
// bcrypt hashes; the plaintext is neither persisted nor logged.
type AdminService struct {
	col *mongo.Collection
}

func NewAdminService(db *mongo.Database) *AdminService {
	return &AdminService{col: db.Collection("admins")}
}

func (s *AdminService) Register(ctx context.Context, username, password string) (*models.Admin, error) {
	if username == "" || password == "" {
		return nil, NewValidationError("username and password are required")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := models.Admin{
		Username:  username,
		Password:  hash,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.col.InsertOne(ctx, &admin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		admin.ID = oid
	}
	return &admin, nil
}

// Authenticate resolves username+password to the stored admin. Unknown user
// and wrong password both come back as ErrInvalidCredentials so callers
// cannot tell them apart.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	res := s.col.FindOne(ctx, bson.M{"username": username})
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return nil, ErrInvalidCredentials
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("find admin: %w", res.Err())
	}
	admin := models.Admin{}
	if err := res.Decode(&admin); err != nil {
		return nil, fmt.Errorf("decode admin: %w", err)
	}
	if !utils.CheckPasswordHash(password, admin.Password) {
		return nil, ErrInvalidCredentials
	}
	return &admin, nil
}

func (s *AdminService) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	res := s.col.FindOne(ctx, bson.M{"_id": oid})
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return nil, ErrInvalidCredentials
	}
	if res.Err() != nil {
		return nil, fmt.Errorf("find admin by id: %w", res.Err())
	}
	admin := models.Admin{}
	if err := res.Decode(&admin); err != nil {
		return nil, fmt.Errorf("decode admin: %w", err)
	}
	return &admin, nil
}
