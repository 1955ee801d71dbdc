package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Email         string               `bson:"email"`
	Username      string               `bson:"username"`
	Discriminator string               `bson:"discriminator"`
	PasswordHash  string               `bson:"password"`
	Birthday      time.Time            `bson:"birthday"`
	Role          string               `bson:"role"`
	Friends       []primitive.ObjectID `bson:"friends"`
	Blocked       []primitive.ObjectID `bson:"blocked"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		Email:         u.Email,
		Username:      u.Username,
		Discriminator: u.Tag,
		PasswordHash:  u.PasswordHash,
		Birthday:      u.Birthday,
		Role:          u.Role,
		Friends:       objectIDs(u.Friends),
		Blocked:       objectIDs(u.Blocked),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Username:     d.Username,
		Tag:          d.Discriminator,
		PasswordHash: d.PasswordHash,
		Birthday:     d.Birthday.UTC(),
		Role:         d.Role,
		Friends:      hexIDs(d.Friends),
		Blocked:      hexIDs(d.Blocked),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

// Unique user index names, set explicitly so duplicate-key errors can be
// attributed without looking at the rejected values.
const (
	indexUserEmail = "email_1"
	indexUserTag   = "username_1_discriminator_1"
)

// duplicateIndex returns the index named in a duplicate-key error message,
// e.g. "E11000 ... index: email_1 dup key: { ... }".
func duplicateIndex(err error) string {
	msgs := []string{err.Error()}
	var we mongo.WriteException
	if errors.As(err, &we) {
		msgs = msgs[:0]
		for _, e := range we.WriteErrors {
			msgs = append(msgs, e.Message)
		}
	}
	for _, msg := range msgs {
		if _, rest, ok := strings.Cut(msg, " index: "); ok {
			if fields := strings.Fields(rest); len(fields) > 0 {
				return fields[0]
			}
		}
	}
	return ""
}

// duplicateUserError maps a duplicate-key error to the index that rejected
// the insert.
func duplicateUserError(err error) error {
	if duplicateIndex(err) == indexUserEmail {
		return domain.ErrEmailTaken
	}
	return domain.ErrUsernameTaken
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDoc(user)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateUserError(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.User{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *UserRepository) TagsForUsername(ctx context.Context, username string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "discriminator", bson.M{"username": username})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	tags := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags, nil
}

func (r *UserRepository) SetRole(ctx context.Context, id, role string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// updateSet applies op ($addToSet or $pull) of other to field on userID.
func (r *UserRepository) updateSet(ctx context.Context, userID, op, field, other string) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	otherOID, err := objectID(other)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		op:     bson.M{field: otherOID},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID string) error {
	return r.updateSet(ctx, userID, "$addToSet", "friends", friendID)
}

func (r *UserRepository) RemoveFriend(ctx context.Context, userID, friendID string) error {
	return r.updateSet(ctx, userID, "$pull", "friends", friendID)
}

func (r *UserRepository) AddBlocked(ctx context.Context, userID, blockedID string) error {
	return r.updateSet(ctx, userID, "$addToSet", "blocked", blockedID)
}

func (r *UserRepository) RemoveBlocked(ctx context.Context, userID, blockedID string) error {
	return r.updateSet(ctx, userID, "$pull", "blocked", blockedID)
}

func (r *UserRepository) RemoveReferences(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{bson.M{"friends": oid}, bson.M{"blocked": oid}}}
	update := bson.M{"$pull": bson.M{"friends": oid, "blocked": oid}}
	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("remove references: %w", err)
	}
	return nil
}
