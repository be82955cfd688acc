package cart

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vibe-commerce/internal/db"
	"vibe-commerce/internal/domain"
)

type lineDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	SessionID string             `bson:"session_id"`
	ProductID primitive.ObjectID `bson:"product_id"`
	Quantity  int                `bson:"quantity"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d lineDoc) toDomain() domain.CartLine {
	return domain.CartLine{
		ID:        d.ID.Hex(),
		SessionID: d.SessionID,
		ProductID: d.ProductID.Hex(),
		Quantity:  d.Quantity,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// joinedDoc is a cart line with its product embedded by the $lookup stage.
type joinedDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	SessionID string             `bson:"session_id"`
	ProductID primitive.ObjectID `bson:"product_id"`
	Quantity  int                `bson:"quantity"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
	Product   struct {
		Name     string               `bson:"name"`
		Price    primitive.Decimal128 `bson:"price"`
		ImageURL string               `bson:"image_url"`
	} `bson:"product"`
}

func (d joinedDoc) toDomain() (domain.CartItem, error) {
	price, err := db.FromDecimal128(d.Product.Price)
	if err != nil {
		return domain.CartItem{}, err
	}
	return domain.CartItem{
		CartLine: lineDoc{
			ID:        d.ID,
			SessionID: d.SessionID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		}.toDomain(),
		Name:     d.Product.Name,
		Price:    price,
		ImageURL: d.Product.ImageURL,
	}, nil
}

type mongoRepo struct {
	lines    *mongo.Collection
	products *mongo.Collection
}

func NewMongo(database *mongo.Database) Repository {
	return &mongoRepo{
		lines:    database.Collection(db.CartLinesCollection),
		products: database.Collection(db.ProductsCollection),
	}
}

func (r *mongoRepo) AddQuantity(ctx context.Context, sessionID, productID string, qty int) (*domain.CartLine, error) {
	pid, ok := db.ObjectID(productID)
	if !ok {
		return nil, domain.ErrInvalidID
	}
	if qty > domain.MaxQuantity {
		return nil, domain.ErrQuantityOutOfRange
	}
	// Unlike the SQL backend there is no foreign key, so check the reference first.
	n, err := r.products.CountDocuments(ctx, bson.M{"_id": pid}, options.Count().SetLimit(1))
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrProductNotFound
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	// A line that would overflow MaxQuantity does not match, so the upsert falls
	// through to an insert that collides with the unique index.
	filter := bson.M{
		"session_id": sessionID,
		"product_id": pid,
		"quantity":   bson.M{"$not": bson.M{"$gt": domain.MaxQuantity - qty}},
	}
	update := bson.M{
		"$inc":         bson.M{"quantity": qty},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc lineDoc
	err = r.lines.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// Either two upserts raced on the unique (session_id, product_id) index and
		// the loser now finds the winner's document, or the line is too full to
		// take qty and the retry collides again.
		err = r.lines.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrQuantityOutOfRange
		}
	}
	if err != nil {
		return nil, fmt.Errorf("upsert cart line: %w", err)
	}
	line := doc.toDomain()
	return &line, nil
}

func (r *mongoRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	return r.aggregate(ctx, bson.M{"session_id": sessionID})
}

func (r *mongoRepo) GetItem(ctx context.Context, id string) (*domain.CartItem, error) {
	oid, ok := db.ObjectID(id)
	if !ok {
		return nil, domain.ErrInvalidID
	}
	items, err := r.aggregate(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrCartItemNotFound
	}
	return &items[0], nil
}

func (r *mongoRepo) SetQuantity(ctx context.Context, id string, qty int) error {
	oid, ok := db.ObjectID(id)
	if !ok {
		return domain.ErrInvalidID
	}
	if qty > domain.MaxQuantity {
		return domain.ErrQuantityOutOfRange
	}
	res, err := r.lines.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"quantity":   qty,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}})
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (r *mongoRepo) Delete(ctx context.Context, id string) error {
	oid, ok := db.ObjectID(id)
	if !ok {
		return domain.ErrInvalidID
	}
	if _, err := r.lines.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

func (r *mongoRepo) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.lines.DeleteMany(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *mongoRepo) aggregate(ctx context.Context, match bson.M) ([]domain.CartItem, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         db.ProductsCollection,
			"localField":   "product_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
	}
	cur, err := r.lines.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate cart lines: %w", err)
	}
	defer cur.Close(ctx)

	items := []domain.CartItem{}
	for cur.Next(ctx) {
		var doc joinedDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode cart line: %w", err)
		}
		item, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}
	return items, nil
}
