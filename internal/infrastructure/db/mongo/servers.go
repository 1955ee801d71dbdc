package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chatcord/chat-api/internal/core/domain"
)

// ServerRepository implements ports.ServerRepository using MongoDB.
type ServerRepository struct {
	coll *mongo.Collection
}

func NewServerRepository(db *mongo.Database) *ServerRepository {
	return &ServerRepository{coll: db.Collection(collectionServers)}
}

type serverDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Owner     primitive.ObjectID `bson:"owner"`
	Icon      string             `bson:"icon,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *serverDoc) toDomain() *domain.Server {
	return &domain.Server{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		OwnerID:   d.Owner.Hex(),
		Icon:      d.Icon,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (r *ServerRepository) Create(ctx context.Context, server *domain.Server) (*domain.Server, error) {
	owner, err := objectID(server.OwnerID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := serverDoc{
		ID:        primitive.NewObjectID(),
		Name:      server.Name,
		Owner:     owner,
		Icon:      server.Icon,
		CreatedAt: server.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert server: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ServerRepository) FindByID(ctx context.Context, id string) (*domain.Server, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc serverDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServerNotFound
		}
		return nil, fmt.Errorf("find server: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ServerRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Server, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Server{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find servers: %w", err)
	}
	var docs []serverDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode servers: %w", err)
	}

	out := make([]*domain.Server, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ServerRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Server, error) {
	owner, err := objectID(ownerID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"owner": owner})
	if err != nil {
		return nil, fmt.Errorf("find owned servers: %w", err)
	}
	var docs []serverDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode servers: %w", err)
	}

	out := make([]*domain.Server, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ServerRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete server: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrServerNotFound
	}
	return nil
}

// MemberRepository implements ports.MemberRepository. The (server, user)
// pair is unique.
type MemberRepository struct {
	coll *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) *MemberRepository {
	return &MemberRepository{coll: db.Collection(collectionMembers)}
}

type memberDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Server   primitive.ObjectID `bson:"server"`
	User     primitive.ObjectID `bson:"user"`
	JoinedAt time.Time          `bson:"joined_at"`
	Roles    []string           `bson:"roles"`
}

func (d *memberDoc) toDomain() *domain.ServerMember {
	return &domain.ServerMember{
		ServerID: d.Server.Hex(),
		UserID:   d.User.Hex(),
		JoinedAt: d.JoinedAt.UTC(),
		Roles:    d.Roles,
	}
}

func memberIDs(serverID, userID string) (primitive.ObjectID, primitive.ObjectID, error) {
	srv, err := objectID(serverID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	user, err := objectID(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return srv, user, nil
}

func memberFilter(serverID, userID string) (bson.M, error) {
	srv, user, err := memberIDs(serverID, userID)
	if err != nil {
		return nil, err
	}
	return bson.M{"server": srv, "user": user}, nil
}

func (r *MemberRepository) Add(ctx context.Context, member *domain.ServerMember) error {
	srv, user, err := memberIDs(member.ServerID, member.UserID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	roles := member.Roles
	if roles == nil {
		roles = []string{}
	}
	doc := memberDoc{
		Server:   srv,
		User:     user,
		JoinedAt: member.JoinedAt,
		Roles:    roles,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *MemberRepository) Remove(ctx context.Context, serverID, userID string) error {
	filter, err := memberFilter(serverID, userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func (r *MemberRepository) IsMember(ctx context.Context, serverID, userID string) (bool, error) {
	filter, err := memberFilter(serverID, userID)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("count members: %w", err)
	}
	return n > 0, nil
}

func (r *MemberRepository) find(ctx context.Context, filter bson.M) ([]memberDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find members: %w", err)
	}
	var docs []memberDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}
	return docs, nil
}

func (r *MemberRepository) ListByServer(ctx context.Context, serverID string) ([]*domain.ServerMember, error) {
	oid, err := objectID(serverID)
	if err != nil {
		return nil, err
	}
	docs, err := r.find(ctx, bson.M{"server": oid})
	if err != nil {
		return nil, err
	}

	out := make([]*domain.ServerMember, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *MemberRepository) ServerIDsForUser(ctx context.Context, userID string) ([]string, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	docs, err := r.find(ctx, bson.M{"user": oid})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Server.Hex())
	}
	return out, nil
}

func (r *MemberRepository) deleteMany(ctx context.Context, field, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{field: oid}); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	return nil
}

func (r *MemberRepository) DeleteByServer(ctx context.Context, serverID string) error {
	return r.deleteMany(ctx, "server", serverID)
}

func (r *MemberRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.deleteMany(ctx, "user", userID)
}
