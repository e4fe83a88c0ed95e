package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/NullMeDev/couponwatch/internal/models"
)

const couponCollection = "coupons"

// Client is the Firestore-backed coupon store. Document IDs are coupon
// fingerprints, so Create doubles as the uniqueness check.
type Client struct {
	client *firestore.Client
}

func New(ctx context.Context, projectID string) (*Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) coupons() *firestore.CollectionRef {
	return c.client.Collection(couponCollection)
}

// Insert persists a new coupon and returns its record ID. It returns
// models.ErrCouponExists if the fingerprint is already in the store.
func (c *Client) Insert(ctx context.Context, coupon models.Coupon) (string, error) {
	if coupon.Fingerprint == "" {
		return "", fmt.Errorf("coupon %q has no fingerprint", coupon.Name)
	}
	docRef := c.coupons().Doc(coupon.Fingerprint)
	if _, err := docRef.Create(ctx, coupon); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return "", models.ErrCouponExists
		}
		return "", fmt.Errorf("failed to insert coupon %q: %w", coupon.Name, err)
	}
	return docRef.ID, nil
}

// ExistsByFingerprint reports whether a coupon with the given fingerprint is
// already persisted.
func (c *Client) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	doc, err := c.coupons().Doc(fingerprint).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check fingerprint %s: %w", fingerprint, err)
	}
	return doc.Exists(), nil
}

// UpdateValidation records a validation outcome. The validation timestamp is
// set to now; the posted flag is deliberately untouched so re-validation can
// never revert a posted record.
func (c *Client) UpdateValidation(ctx context.Context, id string, isValid bool) error {
	_, err := c.coupons().Doc(id).Update(ctx, []firestore.Update{
		{Path: "isValid", Value: isValid},
		{Path: "validatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to update validation for %s: %w", id, err)
	}
	return nil
}

// MarkPosted flips the posted flag. It is never flipped back.
func (c *Client) MarkPosted(ctx context.Context, id string) error {
	_, err := c.coupons().Doc(id).Update(ctx, []firestore.Update{
		{Path: "isPosted", Value: true},
	})
	if err != nil {
		return fmt.Errorf("failed to mark %s as posted: %w", id, err)
	}
	return nil
}

// GetByID retrieves a coupon by record ID, or nil when absent.
func (c *Client) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	doc, err := c.coupons().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon %s: %w", id, err)
	}
	coupon, err := couponFromDoc(doc)
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ListAll returns every stored coupon, newest first.
func (c *Client) ListAll(ctx context.Context) ([]models.Coupon, error) {
	return c.collect(c.coupons().OrderBy("createdAt", firestore.Desc).Documents(ctx))
}

// ListBySource returns the stored coupons for one source label, newest first.
func (c *Client) ListBySource(ctx context.Context, source string) ([]models.Coupon, error) {
	return c.collect(c.coupons().
		Where("source", "==", source).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx))
}

// ListValidUnposted returns validated coupons that have not been delivered
// yet, newest first. This query is the delivery retry path.
func (c *Client) ListValidUnposted(ctx context.Context) ([]models.Coupon, error) {
	return c.collect(c.coupons().
		Where("isValid", "==", true).
		Where("isPosted", "==", false).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx))
}

// DeleteExpired removes every coupon whose expiry has passed and returns the
// number deleted. Coupons without an expiry never match the range filter and
// are retained.
func (c *Client) DeleteExpired(ctx context.Context) (int, error) {
	iter := c.coupons().Where("expiry", "<", time.Now().UTC()).Documents(ctx)
	defer iter.Stop()

	bulkWriter := c.client.BulkWriter(ctx)
	defer bulkWriter.End()

	deleted := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to iterate expired coupons: %w", err)
		}
		if _, err := bulkWriter.Delete(doc.Ref); err != nil {
			return deleted, fmt.Errorf("failed to queue delete for %s: %w", doc.Ref.ID, err)
		}
		deleted++
	}

	if deleted > 0 {
		bulkWriter.Flush()
	}
	return deleted, nil
}

func (c *Client) collect(iter *firestore.DocumentIterator) ([]models.Coupon, error) {
	defer iter.Stop()

	var coupons []models.Coupon
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate coupons: %w", err)
		}
		coupon, err := couponFromDoc(doc)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}
	return coupons, nil
}

func couponFromDoc(doc *firestore.DocumentSnapshot) (models.Coupon, error) {
	var coupon models.Coupon
	if err := doc.DataTo(&coupon); err != nil {
		return models.Coupon{}, fmt.Errorf("failed to unmarshal coupon %s: %w", doc.Ref.ID, err)
	}
	if coupon.Fingerprint == "" {
		coupon.Fingerprint = doc.Ref.ID
	}
	return coupon, nil
}
