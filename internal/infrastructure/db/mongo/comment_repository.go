package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogstack/blog-api/internal/core/domain"
)

// CommentRepository implements ports.CommentRepository using MongoDB.
type CommentRepository struct {
	db *mongo.Database
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{db: db}
}

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	PostID    primitive.ObjectID `bson:"post_id"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *commentDoc) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        d.ID.Hex(),
		Content:   d.Content,
		PostID:    d.PostID.Hex(),
		AuthorID:  d.AuthorID.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Create inserts a new comment document.
func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	postOID, err := primitive.ObjectIDFromHex(comment.PostID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	authorOID, err := primitive.ObjectIDFromHex(comment.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q", comment.AuthorID)
	}

	doc := commentDoc{
		Content:   comment.Content,
		PostID:    postOID,
		AuthorID:  authorOID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	res, err := r.db.Collection(collectionComments).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	created := *comment
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.Author, _ = r.author(ctx, comment.AuthorID)
	return &created, nil
}

// FindByID retrieves a comment with its author summary.
func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCommentNotFound
	}

	var doc commentDoc
	if err := r.db.Collection(collectionComments).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}

	comment := doc.toDomain()
	comment.Author, _ = r.author(ctx, comment.AuthorID)
	return comment, nil
}

// ListByPost returns a page of a post's comments, newest first, plus the
// total count for that post.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string, page, limit int) ([]domain.Comment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	postOID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, 0, domain.ErrPostNotFound
	}

	comments := r.db.Collection(collectionComments)
	query := bson.M{"post_id": postOID}

	total, err := comments.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := comments.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Comment
	authors := map[string]*domain.Author{}
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode comment: %w", err)
		}
		comment := doc.toDomain()

		author, ok := authors[comment.AuthorID]
		if !ok {
			author, _ = r.author(ctx, comment.AuthorID)
			authors[comment.AuthorID] = author
		}
		comment.Author = author
		out = append(out, *comment)
	}
	return out, total, cur.Err()
}

// Update replaces the comment content.
func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(comment.ID)
	if err != nil {
		return nil, domain.ErrCommentNotFound
	}

	update := bson.M{"$set": bson.M{
		"content":    comment.Content,
		"updated_at": comment.UpdatedAt,
	}}

	res, err := r.db.Collection(collectionComments).UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCommentNotFound
	}

	comment.Author, _ = r.author(ctx, comment.AuthorID)
	return comment, nil
}

// Delete removes a comment document.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCommentNotFound
	}

	res, err := r.db.Collection(collectionComments).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) author(ctx context.Context, id string) (*domain.Author, error) {
	return (&PostRepository{db: r.db}).author(ctx, id)
}

// EnsureIndexes creates the index comment listing relies on.
func (r *CommentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.db.Collection(collectionComments).Indexes().CreateMany(ctx, indexes)
	return err
}
