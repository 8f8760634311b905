package ports

import (
	"context"

	"instantload/domain/listing"
)

// ListingLoader reads a listing sheet into a raw Dataset
type ListingLoader interface {
	Load(ctx context.Context) (*listing.Dataset, error)
	Source() string
}
