package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

const collectionTherapists = "therapists"

type TherapistRepository struct {
	col *mongo.Collection
}

func NewTherapistRepository(db *mongo.Database) *TherapistRepository {
	return &TherapistRepository{col: db.Collection(collectionTherapists)}
}

func (r *TherapistRepository) Create(ctx context.Context, t *domain.Therapist) (*domain.Therapist, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return nil, fmt.Errorf("insert therapist: %w", err)
	}
	return t, nil
}

func (r *TherapistRepository) FindByID(ctx context.Context, id string) (*domain.Therapist, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Therapist
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTherapistNotFound
		}
		return nil, fmt.Errorf("find therapist: %w", err)
	}
	return &t, nil
}

func (r *TherapistRepository) List(ctx context.Context, onlyActive bool) ([]*domain.Therapist, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if onlyActive {
		filter["active"] = true
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}
	defer cur.Close(ctx)

	var therapists []*domain.Therapist
	if err := cur.All(ctx, &therapists); err != nil {
		return nil, fmt.Errorf("decode therapists: %w", err)
	}
	return therapists, nil
}

func (r *TherapistRepository) SetActive(ctx context.Context, id string, active bool) (*domain.Therapist, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"active": active, "updated_at": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return nil, fmt.Errorf("set therapist active: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTherapistNotFound
	}
	return r.FindByID(ctx, id)
}
