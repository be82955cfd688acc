package order

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

	"vibe-commerce/internal/db"
	"vibe-commerce/internal/domain"
)

type orderDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	CustomerName  string               `bson:"customer_name"`
	CustomerEmail string               `bson:"customer_email"`
	Total         primitive.Decimal128 `bson:"total"`
	Items         []itemDoc            `bson:"items"`
	CreatedAt     time.Time            `bson:"created_at"`
}

type itemDoc struct {
	ProductID primitive.ObjectID   `bson:"product_id"`
	Name      string               `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
	Subtotal  primitive.Decimal128 `bson:"subtotal"`
}

type mongoRepo struct {
	database *mongo.Database
	orders   *mongo.Collection
	lines    *mongo.Collection
	logger   *log.Logger
}

func NewMongo(database *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{
		database: database,
		orders:   database.Collection(db.OrdersCollection),
		lines:    database.Collection(db.CartLinesCollection),
		logger:   logger,
	}
}

func (r *mongoRepo) Place(ctx context.Context, order domain.Order, sessionID string) (*domain.Order, error) {
	doc, err := toOrderDoc(order)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	sess, err := r.database.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	cleared, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.orders.InsertOne(sc, doc); err != nil {
			return nil, fmt.Errorf("insert order: %w", err)
		}
		res, err := r.lines.DeleteMany(sc, bson.M{"session_id": sessionID})
		if err != nil {
			return nil, fmt.Errorf("clear cart: %w", err)
		}
		return res.DeletedCount, nil
	})
	if err != nil {
		return nil, err
	}

	res := order
	res.ID = doc.ID.Hex()
	res.CreatedAt = doc.CreatedAt
	r.logger.Printf("order repo: placed id=%s lines=%d cleared=%v", res.ID, len(res.Items), cleared)
	return &res, nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, ok := db.ObjectID(id)
	if !ok {
		return nil, domain.ErrInvalidID
	}
	var doc orderDoc
	if err := r.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, fmt.Errorf("get order: %w", err)
	}
	return doc.toDomain()
}

func toOrderDoc(o domain.Order) (orderDoc, error) {
	total, err := db.ToDecimal128(o.Total)
	if err != nil {
		return orderDoc{}, err
	}
	items := make([]itemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		pid, ok := db.ObjectID(it.ProductID)
		if !ok {
			return orderDoc{}, domain.ErrInvalidID
		}
		price, err := db.ToDecimal128(it.Price)
		if err != nil {
			return orderDoc{}, err
		}
		sub, err := db.ToDecimal128(it.Subtotal)
		if err != nil {
			return orderDoc{}, err
		}
		items = append(items, itemDoc{ProductID: pid, Name: it.Name, Price: price, Quantity: it.Quantity, Subtotal: sub})
	}
	return orderDoc{
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Total:         total,
		Items:         items,
	}, nil
}

func (d orderDoc) toDomain() (*domain.Order, error) {
	total, err := db.FromDecimal128(d.Total)
	if err != nil {
		return nil, err
	}
	o := &domain.Order{
		ID:            d.ID.Hex(),
		CustomerName:  d.CustomerName,
		CustomerEmail: d.CustomerEmail,
		Total:         total,
		Items:         make([]domain.OrderItem, 0, len(d.Items)),
		CreatedAt:     d.CreatedAt,
	}
	for _, it := range d.Items {
		price, err := db.FromDecimal128(it.Price)
		if err != nil {
			return nil, err
		}
		sub, err := db.FromDecimal128(it.Subtotal)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, domain.OrderItem{
			ProductID: it.ProductID.Hex(),
			Name:      it.Name,
			Price:     price,
			Quantity:  it.Quantity,
			Subtotal:  sub,
		})
	}
	return o, nil
}
