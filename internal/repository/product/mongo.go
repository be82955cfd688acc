package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vibe-commerce/internal/db"
	"vibe-commerce/internal/domain"
)

type productDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Price       primitive.Decimal128 `bson:"price"`
	Description string               `bson:"description"`
	ImageURL    string               `bson:"image_url"`
	Stock       int                  `bson:"stock"`
	CreatedAt   time.Time            `bson:"created_at"`
}

func (d productDoc) toDomain() (domain.Product, error) {
	price, err := db.FromDecimal128(d.Price)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       price,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Stock:       d.Stock,
		CreatedAt:   d.CreatedAt,
	}, nil
}

type mongoRepo struct {
	collection *mongo.Collection
	logger     *log.Logger
}

func NewMongo(database *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{collection: database.Collection(db.ProductsCollection), logger: logger}
}

func (r *mongoRepo) List(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	result := []domain.Product{}
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, ok := db.ObjectID(id)
	if !ok {
		return nil, domain.ErrInvalidID
	}
	var doc productDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrProductNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, fmt.Errorf("find product: %w", err)
	}
	p, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoRepo) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	price, err := db.ToDecimal128(product.Price)
	if err != nil {
		return nil, err
	}
	doc := productDoc{
		ID:          primitive.NewObjectID(),
		Name:        product.Name,
		Price:       price,
		Description: product.Description,
		ImageURL:    product.ImageURL,
		Stock:       product.Stock,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Printf("product repo: create name=%q conflict", product.Name)
			return nil, domain.ErrProductExists
		}
		r.logger.Printf("product repo: create name=%q error=%v", product.Name, err)
		return nil, fmt.Errorf("insert product: %w", err)
	}
	res := product
	res.ID = doc.ID.Hex()
	res.CreatedAt = doc.CreatedAt
	r.logger.Printf("product repo: created name=%q id=%s", res.Name, res.ID)
	return &res, nil
}
