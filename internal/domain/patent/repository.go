package patent

import "context"

// Repository persists portfolio records. List returns records newest first,
// where "newest" is insertion order: the record saved last comes first.
// Missing records are reported with errors.CodePatentNotFound.
type Repository interface {
	Save(ctx context.Context, p *Patent) error
	// SaveAll stores every record or none of them. Afterwards ps[0] is the
	// newest record, followed by the rest in the order given.
	SaveAll(ctx context.Context, ps ...*Patent) error
	Update(ctx context.Context, p *Patent) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Patent, error)
	List(ctx context.Context) ([]*Patent, error)
}

//Personal.AI order the ending
