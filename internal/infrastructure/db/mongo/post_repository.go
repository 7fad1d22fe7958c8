package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogstack/blog-api/internal/core/domain"
	"github.com/blogstack/blog-api/internal/core/ports"
)

const (
	collectionPosts    = "posts"
	collectionComments = "comments"
)

// PostRepository implements ports.PostRepository using MongoDB. It also
// reads the users and comments collections to embed author summaries and
// comment counts the way the API returns them.
type PostRepository struct {
	db *mongo.Database
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{db: db}
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Published bool               `bson:"published"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Published: d.Published,
		AuthorID:  d.AuthorID.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Create inserts a new post document.
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	authorOID, err := primitive.ObjectIDFromHex(post.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q", post.AuthorID)
	}

	doc := postDoc{
		Title:     post.Title,
		Content:   post.Content,
		Published: post.Published,
		AuthorID:  authorOID,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}

	res, err := r.db.Collection(collectionPosts).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := *post
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.Author, _ = r.author(ctx, post.AuthorID)
	return &created, nil
}

// FindByID retrieves a post with its author summary and its comments,
// newest first.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	var doc postDoc
	if err := r.db.Collection(collectionPosts).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	post := doc.toDomain()
	post.Author, _ = r.author(ctx, post.AuthorID)

	comments, err := r.comments(ctx, oid)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	post.CommentCount = int64(len(comments))
	return post, nil
}

// comments loads all comments of a post, newest first, with author summaries.
func (r *PostRepository) comments(ctx context.Context, postOID primitive.ObjectID) ([]domain.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.db.Collection(collectionComments).Find(ctx, bson.M{"post_id": postOID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find post comments: %w", err)
	}
	defer cur.Close(ctx)

	var comments []domain.Comment
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode comment: %w", err)
		}
		c := doc.toDomain()
		c.Author, _ = r.author(ctx, c.AuthorID)
		comments = append(comments, *c)
	}
	return comments, cur.Err()
}

// List returns a page of posts matching the filter, newest first, plus the
// total matching count.
func (r *PostRepository) List(ctx context.Context, filter ports.PostFilter) ([]domain.Post, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Title != "" {
		query["title"] = bson.M{"$regex": regexp.QuoteMeta(filter.Title), "$options": "i"}
	}
	if filter.Published != nil {
		query["published"] = *filter.Published
	}
	if filter.AuthorID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.AuthorID)
		if err != nil {
			return nil, 0, domain.ErrUserNotFound
		}
		query["author_id"] = oid
	}

	posts := r.db.Collection(collectionPosts)

	total, err := posts.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := posts.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Post
	authors := map[string]*domain.Author{}
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode post: %w", err)
		}
		post := doc.toDomain()

		author, ok := authors[post.AuthorID]
		if !ok {
			author, _ = r.author(ctx, post.AuthorID)
			authors[post.AuthorID] = author
		}
		post.Author = author

		count, err := r.db.Collection(collectionComments).CountDocuments(ctx, bson.M{"post_id": doc.ID})
		if err == nil {
			post.CommentCount = count
		}
		out = append(out, *post)
	}
	return out, total, cur.Err()
}

// Update replaces the mutable fields of a post document.
func (r *PostRepository) Update(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":      post.Title,
		"content":    post.Content,
		"published":  post.Published,
		"updated_at": post.UpdatedAt,
	}}

	res, err := r.db.Collection(collectionPosts).UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPostNotFound
	}

	post.Author, _ = r.author(ctx, post.AuthorID)
	return post, nil
}

// Delete removes a post and its comments.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.db.Collection(collectionPosts).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}

	// cascade: orphaned comments serve nothing
	_, err = r.db.Collection(collectionComments).DeleteMany(ctx, bson.M{"post_id": oid})
	if err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	return nil
}

// author loads the embedded author summary for a post or comment.
func (r *PostRepository) author(ctx context.Context, id string) (*domain.Author, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var doc userDoc
	if err := r.db.Collection(collectionUsers).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}

	return &domain.Author{
		ID:        doc.ID.Hex(),
		Username:  doc.Username,
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
	}, nil
}

// EnsureIndexes creates the indexes list and lookup queries rely on.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.db.Collection(collectionPosts).Indexes().CreateMany(ctx, indexes)
	return err
}
