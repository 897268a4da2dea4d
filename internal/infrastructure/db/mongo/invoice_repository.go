package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streamflow/platform/internal/core/domain"
)

const collectionInvoices = "invoices"

// InvoiceRepository persists invoices with the same soft-delete scheme as
// accounts.
type InvoiceRepository struct {
	col *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{col: db.Collection(collectionInvoices)}
}

type invoiceDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	AccountID    string             `bson:"account_id"`
	Status       string             `bson:"status"`
	Amount       int64              `bson:"amount"`
	EmissionDate time.Time          `bson:"emission_date"`
	PaymentDate  *time.Time         `bson:"payment_date,omitempty"`
	Deleted      bool               `bson:"deleted"`
	DeletedAt    *time.Time         `bson:"deleted_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *invoiceDoc) toDomain() *domain.Invoice {
	return &domain.Invoice{
		ID:           d.ID.Hex(),
		AccountID:    d.AccountID,
		Status:       d.Status,
		Amount:       d.Amount,
		EmissionDate: d.EmissionDate,
		PaymentDate:  d.PaymentDate,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Create inserts a new invoice. The emission date is stamped here; a Pagado
// invoice created directly also gets its payment date.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := invoiceDoc{
		AccountID:    invoice.AccountID,
		Status:       invoice.Status,
		Amount:       invoice.Amount,
		EmissionDate: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		doc.PaymentDate = &now
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindByID retrieves a non-deleted invoice by id.
func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*domain.Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvoiceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc invoiceDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid, "deleted": false}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns non-deleted invoices matching filter, newest first.
func (r *InvoiceRepository) List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"deleted": false}
	if filter.AccountID != "" {
		query["account_id"] = filter.AccountID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "emission_date", Value: -1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var invoices []domain.Invoice
	for cur.Next(ctx) {
		var doc invoiceDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		invoices = append(invoices, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return invoices, nil
}

// UpdateStatus transitions the invoice and optionally stamps the payment
// date, returning the updated document.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id, status string, markPaid bool) (*domain.Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvoiceNotFound
	}

	now := time.Now().UTC()
	set := bson.M{"status": status, "updated_at": now}
	if markPaid {
		set["payment_date"] = now
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc invoiceDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid, "deleted": false}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// SoftDelete marks the invoice deleted.
func (r *InvoiceRepository) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvoiceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true, "deleted_at": now, "updated_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// EnsureIndexes creates the listing indexes.
func (r *InvoiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "account_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
