package tax

import "context"

type TaxService interface {
	// Publish stores a validated bracket table for a fiscal year. Tables are
	// immutable once published.
	Publish(ctx context.Context, req PublishBracketTableRequest) (BracketTableResponse, error)
	GetByFiscalYear(ctx context.Context, fiscalYear int) (BracketTableResponse, error)
	List(ctx context.Context) ([]BracketTableResponse, error)
}
