package badger

import (
	"context"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/folio/core"
	"github.com/poiesic/folio/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) *CatalogRepository {
	return &CatalogRepository{backend: backend}
}

// Close releases resources. CatalogRepository has no resources to release.
func (r *CatalogRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CatalogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SavePageText upserts the extracted text of one page.
func (r *CatalogRepository) SavePageText(ctx context.Context, page *core.PageText) error {
	return r.backend.WithWriteTx(func(tx *badger.Txn) error {
		if page.InsertedAt.IsZero() {
			page.InsertedAt = time.Now().UTC()
		}
		key := makePageTextKey(page.DocumentId, page.Page)
		if err := tx.Set(key, storage.MarshalPageText(page)); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// GetPageTexts retrieves all page texts of a document in page order.
func (r *CatalogRepository) GetPageTexts(ctx context.Context, documentID core.ID) ([]*core.PageText, error) {
	var pages []*core.PageText
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePageTextPrefix(documentID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				page, uerr := storage.UnmarshalPageText(val)
				if uerr != nil {
					return uerr
				}
				pages = append(pages, page)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return pages, err
}

// DeletePageTexts removes all page texts of a document.
func (r *CatalogRepository) DeletePageTexts(ctx context.Context, documentID core.ID) error {
	return r.backend.WithWriteTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makePageTextPrefix(documentID)
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// AddImageIfNew inserts the image unless its content-based ID exists.
func (r *CatalogRepository) AddImageIfNew(ctx context.Context, image *core.CatalogImage) (bool, error) {
	inserted := false
	err := r.backend.WithWriteTx(func(tx *badger.Txn) error {
		inserted = false
		key := makeImageKey(image.DocumentId, image.Id)
		if _, err := tx.Get(key); err == nil {
			return nil
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if image.InsertedAt.IsZero() {
			image.InsertedAt = time.Now().UTC()
		}
		image.UpdatedAt = image.InsertedAt
		if err := tx.Set(key, storage.MarshalCatalogImage(image)); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	return inserted, err
}

// GetImage retrieves an image by ID.
func (r *CatalogRepository) GetImage(ctx context.Context, id core.ID) (*core.CatalogImage, error) {
	var found *core.CatalogImage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(imageRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				image, uerr := storage.UnmarshalCatalogImage(val)
				if uerr != nil {
					return uerr
				}
				if image.Id == id {
					found = image
				}
				return nil
			})
			if err != nil {
				return err
			}
			if found != nil {
				return nil
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, storage.ErrNotFound
	}
	return found, nil
}

// GetImagesByDocument retrieves all images of a document in page order.
func (r *CatalogRepository) GetImagesByDocument(ctx context.Context, documentID core.ID) ([]*core.CatalogImage, error) {
	var images []*core.CatalogImage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeImagePrefix(documentID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				image, uerr := storage.UnmarshalCatalogImage(val)
				if uerr != nil {
					return uerr
				}
				images = append(images, image)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(images, func(i, j int) bool {
		if images[i].Page != images[j].Page {
			return images[i].Page < images[j].Page
		}
		return images[i].Id < images[j].Id
	})
	return images, nil
}

// UpdateImages updates existing images.
func (r *CatalogRepository) UpdateImages(ctx context.Context, images ...*core.CatalogImage) ([]*core.CatalogImage, error) {
	err := r.backend.WithWriteTx(func(tx *badger.Txn) error {
		for _, image := range images {
			key := makeImageKey(image.DocumentId, image.Id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}
			image.UpdatedAt = time.Now().UTC()
			if err := tx.Set(key, storage.MarshalCatalogImage(image)); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	return images, err
}

// AddProductIfNew inserts the product unless its (document, name) ID exists.
func (r *CatalogRepository) AddProductIfNew(ctx context.Context, product *core.Product) (bool, error) {
	if err := core.ValidateProduct(product); err != nil {
		return false, err
	}

	inserted := false
	err := r.backend.WithWriteTx(func(tx *badger.Txn) error {
		inserted = false
		if product.Id == 0 {
			product.Id = core.IDFromContent(product.Key())
		}
		key := makeProductKey(product.DocumentId, product.Id)
		if _, err := tx.Get(key); err == nil {
			return nil
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if product.InsertedAt.IsZero() {
			product.InsertedAt = time.Now().UTC()
		}
		product.UpdatedAt = product.InsertedAt
		if err := tx.Set(key, storage.MarshalProduct(product)); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	return inserted, err
}

// GetProduct retrieves a product by ID.
func (r *CatalogRepository) GetProduct(ctx context.Context, id core.ID) (*core.Product, error) {
	var found *core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(productRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				product, uerr := storage.UnmarshalProduct(val)
				if uerr != nil {
					return uerr
				}
				if product.Id == id {
					found = product
				}
				return nil
			})
			if err != nil {
				return err
			}
			if found != nil {
				return nil
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, storage.ErrNotFound
	}
	return found, nil
}

// GetProductsByDocument retrieves all products of a document.
func (r *CatalogRepository) GetProductsByDocument(ctx context.Context, documentID core.ID) ([]*core.Product, error) {
	var products []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeProductPrefix(documentID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				product, uerr := storage.UnmarshalProduct(val)
				if uerr != nil {
					return uerr
				}
				products = append(products, product)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].Page != products[j].Page {
			return products[i].Page < products[j].Page
		}
		return products[i].Name < products[j].Name
	})
	return products, nil
}

// UpdateProducts updates existing products.
func (r *CatalogRepository) UpdateProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error) {
	err := r.backend.WithWriteTx(func(tx *badger.Txn) error {
		for _, product := range products {
			key := makeProductKey(product.DocumentId, product.Id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}
			product.UpdatedAt = time.Now().UTC()
			if err := tx.Set(key, storage.MarshalProduct(product)); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	return products, err
}
