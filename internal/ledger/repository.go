package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/mgoncalves/payables/internal/dataset"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	invoicesCollection = "paid_invoices"
	syncCollection     = "ledgerSync"
)

// InvoiceDoc is one paid invoice in the ledger collection.
type InvoiceDoc struct {
	DocumentType   string `bson:"documentType,omitempty"`
	DocumentNumber string `bson:"documentNumber"`
	AccountCode    string `bson:"accountCode,omitempty"`
	DueDate        string `bson:"dueDate,omitempty"`
	PostingDate    string `bson:"postingDate,omitempty"`
	Balance        string `bson:"balance,omitempty"`
}

// SyncLog records one ledger upload in the ledgerSync collection.
type SyncLog struct {
	CollectionName  string    `bson:"collection_name"`
	SyncTimestamp   time.Time `bson:"sync_timestamp"`
	RecordsUploaded int64     `bson:"records_uploaded"`
}

// MongoRepository persists the paid-invoices ledger in MongoDB.
type MongoRepository struct {
	provider CollectionProvider
}

// NewMongoRepository creates a new MongoRepository.
func NewMongoRepository(provider CollectionProvider) *MongoRepository {
	return &MongoRepository{provider: provider}
}

// BulkUpsertInvoices upserts ledger documents keyed on document number, then
// records the upload in the sync log.
func (r *MongoRepository) BulkUpsertInvoices(ctx context.Context, docs []InvoiceDoc) error {
	if len(docs) == 0 {
		return nil // Nothing to upsert
	}

	var models []mongo.WriteModel
	for _, doc := range docs {
		filter := bson.M{"documentNumber": doc.DocumentNumber}
		update := bson.M{"$set": doc}
		models = append(models, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}

	collection := r.provider.Collection(invoicesCollection)
	if _, err := collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to perform bulk write for collection %s: %w", invoicesCollection, err)
	}

	syncLog := SyncLog{
		CollectionName:  invoicesCollection,
		SyncTimestamp:   time.Now(),
		RecordsUploaded: int64(len(docs)),
	}
	if _, err := r.provider.Collection(syncCollection).InsertOne(ctx, syncLog); err != nil {
		return fmt.Errorf("failed to insert into %s collection: %w", syncCollection, err)
	}

	return nil
}

// Columns names the dataset columns DocsFromDataset reads.
type Columns struct {
	DocumentType   string
	DocumentNumber string
	AccountCode    string
	DueDate        string
	PostingDate    string
	Balance        string
}

// DocsFromDataset maps a ledger dataset into Mongo documents. The document
// number column is required; other fields are taken when present and render
// through the dataset's display formatting.
func DocsFromDataset(ds *dataset.Dataset, cols Columns) ([]InvoiceDoc, error) {
	docIdx, err := ds.ColumnIndex(cols.DocumentNumber)
	if err != nil {
		return nil, fmt.Errorf("DocsFromDataset: %w", err)
	}

	docs := make([]InvoiceDoc, 0, ds.NumRows())
	for i := 0; i < ds.NumRows(); i++ {
		docs = append(docs, InvoiceDoc{
			DocumentNumber: ds.At(i, docIdx).Str(),
			DocumentType:   cellText(ds, i, cols.DocumentType),
			AccountCode:    cellText(ds, i, cols.AccountCode),
			DueDate:        cellText(ds, i, cols.DueDate),
			PostingDate:    cellText(ds, i, cols.PostingDate),
			Balance:        cellText(ds, i, cols.Balance),
		})
	}
	return docs, nil
}

func cellText(ds *dataset.Dataset, row int, column string) string {
	if !ds.HasColumn(column) {
		return ""
	}
	v, _ := ds.Value(row, column)
	return v.String()
}
