package store

import (
	"context"
	"regexp"

	"civic-reporter-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderNewest and OrderOldest are the recognized values of the ordering
// option; they follow the `ordering=created_at` / `ordering=-created_at`
// query convention.
const (
	OrderNewest = "-created_at"
	OrderOldest = "created_at"
)

// ListFilter selects and orders issues for listing. Zero-value fields are
// ignored. Search is matched as a case-insensitive substring against
// title, description and address (OR-combined). Owner, when set, scopes
// the result to issues created by that user.
type ListFilter struct {
	Category string
	Status   string
	Search   string
	Ordering string
	Owner    *primitive.ObjectID
}

// Query builds the Mongo filter document for this ListFilter.
func (f ListFilter) Query() bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Owner != nil {
		filter["createdBy"] = *f.Owner
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = []bson.M{
			{"title": pattern},
			{"description": pattern},
			{"address": pattern},
		}
	}
	return filter
}

// Sort returns the sort document for this ListFilter; newest first unless
// ascending order was asked for explicitly.
func (f ListFilter) Sort() bson.D {
	if f.Ordering == OrderOldest {
		return bson.D{{Key: "createdAt", Value: 1}}
	}
	return bson.D{{Key: "createdAt", Value: -1}}
}

// IssueStore holds issue records. Issues are created once, read many
// times, and mutated only through UpdateStatus; they are never deleted.
type IssueStore interface {
	Insert(ctx context.Context, issue *models.Issue) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	Find(ctx context.Context, filter ListFilter) ([]models.Issue, error)
	FindByAddress(ctx context.Context, query string) ([]models.Issue, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Issue, error)
}

// MongoIssueStore implements IssueStore on a MongoDB collection.
type MongoIssueStore struct {
	coll *mongo.Collection
}

func NewMongoIssueStore(db *mongo.Database) *MongoIssueStore {
	return &MongoIssueStore{coll: db.Collection("issues")}
}

func (s *MongoIssueStore) Insert(ctx context.Context, issue *models.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, issue)
	return err
}

func (s *MongoIssueStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (s *MongoIssueStore) Find(ctx context.Context, filter ListFilter) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(filter.Sort())

	cursor, err := s.coll.Find(ctx, filter.Query(), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (s *MongoIssueStore) FindByAddress(ctx context.Context, query string) ([]models.Issue, error) {
	filter := bson.M{}
	if query != "" {
		filter["address"] = primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	}

	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// UpdateStatus applies the new status unconditionally and returns the
// updated record. Concurrent updates to the same issue are last-write-wins;
// there is no per-row versioning.
func (s *MongoIssueStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Issue, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var issue models.Issue
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}
