package importing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// BatchItem is the per-document outcome of a batch import. Exactly one of
// Result and Error is set.
type BatchItem struct {
	Name   string  `json:"name"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
	Code   string  `json:"code,omitempty"`
}

// BatchResult lists items in input order.
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// Batch imports several documents concurrently. A failing document does not
// stop the others. With Commit set, the successful records are committed in
// one call after all documents are parsed, so the portfolio order follows
// the input order.
func (s *Service) Batch(ctx context.Context, docs []Document, opts Options) (*BatchResult, error) {
	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeImportEmptyInput, "no documents to import")
	}

	results := make([]*Result, len(docs))
	failures := make([]error, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)
	for i := range docs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.parseFile(gctx, docs[i], opts)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &BatchResult{Items: make([]BatchItem, len(docs))}
	var records []*patent.Patent
	for i, doc := range docs {
		item := BatchItem{Name: doc.Name}
		if failures[i] != nil {
			item.Error = failures[i].Error()
			item.Code = string(errors.GetCode(failures[i]))
			out.Failed++
			s.log.Warn("batch import document failed", logging.String("document", doc.Name), logging.Err(failures[i]))
		} else {
			item.Result = results[i]
			records = append(records, results[i].Patents...)
			out.Succeeded++
		}
		out.Items[i] = item
	}

	// finish each result without committing, then commit them together
	commit := opts.Commit
	opts.Commit = false
	for _, item := range out.Items {
		if item.Result != nil {
			if _, err := s.finish(ctx, item.Result, opts); err != nil {
				return nil, err
			}
		}
	}
	if !commit || len(records) == 0 {
		return out, nil
	}
	if s.deps.Committer == nil {
		return nil, errors.New(errors.ErrCodeNotImplemented, "import commit is not available")
	}
	stored, err := s.deps.Committer.Import(ctx, records...)
	if err != nil {
		return nil, err
	}
	// Import returns stored copies in argument order.
	for i := range out.Items {
		res := out.Items[i].Result
		if res == nil {
			continue
		}
		n := len(res.Patents)
		res.Patents, stored = stored[:n], stored[n:]
		res.Committed = true
	}
	return out, nil
}

//Personal.AI order the ending
