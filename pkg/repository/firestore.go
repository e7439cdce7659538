package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/lucentlab/lucent/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const productCollection = "products"

// Firestore implements Repository using Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

// New creates a Firestore-backed repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.T(model.TagStore), goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying Firestore client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) PutProduct(ctx context.Context, product *model.Product) error {
	_, err := r.client.Collection(productCollection).Doc(string(product.ID)).Set(ctx, product)
	if err != nil {
		return goerr.Wrap(err, "failed to put product",
			goerr.T(model.TagStore), goerr.V("id", product.ID))
	}
	return nil
}

func (r *Firestore) GetProduct(ctx context.Context, id model.ProductID) (*model.Product, error) {
	doc, err := r.client.Collection(productCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrProductNotFound, "no such document",
				goerr.T(model.TagNotFound), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get product",
			goerr.T(model.TagStore), goerr.V("id", id))
	}

	var product model.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, goerr.Wrap(err, "failed to decode product",
			goerr.T(model.TagStore), goerr.V("id", id))
	}

	return &product, nil
}

func (r *Firestore) ListProducts(ctx context.Context) ([]*model.Product, error) {
	iter := r.client.Collection(productCollection).
		OrderBy("updatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var products []*model.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate products", goerr.T(model.TagStore))
		}

		var product model.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, goerr.Wrap(err, "failed to decode product",
				goerr.T(model.TagStore), goerr.V("doc", doc.Ref.ID))
		}
		products = append(products, &product)
	}

	return products, nil
}
