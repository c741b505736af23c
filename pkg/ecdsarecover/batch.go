package ecdsarecover

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// maxWorkers caps the batch worker pool.
const maxWorkers = 256

// BatchResult is the outcome of one record. Results are returned in input
// order; Index is the record's position in the input.
type BatchResult struct {
	Index int

	// Valid is the verification verdict in verify mode. In recover mode it
	// reports whether the recovered key matches the record's public key, or
	// is true when the record has none.
	Valid bool

	// PublicKey is the recovered key (recover mode only).
	PublicKey *PublicKey

	// Err is set when the record could not be processed.
	Err error
}

// VerifyBatch verifies every record against its public key in parallel.
// Per-record failures are reported in the results; the returned error is
// only set when ctx is done before all records are processed.
func (c *Client) VerifyBatch(ctx context.Context, records []*Record) ([]BatchResult, error) {
	return c.runBatch(ctx, "verify", records, func(i int, record *Record) BatchResult {
		result := BatchResult{Index: i}
		if record.PublicKey == nil {
			result.Err = malformed(fmt.Errorf("%w: record has no public key", ErrInvalidKey))
			return result
		}
		result.Valid, result.Err = c.verifier.Verify(record.Message, record.PublicKey, record.Signature)
		return result
	})
}

// RecoverBatch recovers the public key of every record in parallel.
func (c *Client) RecoverBatch(ctx context.Context, records []*Record) ([]BatchResult, error) {
	return c.runBatch(ctx, "recover", records, func(i int, record *Record) BatchResult {
		result := BatchResult{Index: i}
		pub, err := c.recoverer.RecoverPublicKey(record.Message, record.Signature)
		if err != nil {
			result.Err = err
			return result
		}
		result.PublicKey = pub
		result.Valid = record.PublicKey == nil || pub.IsEqual(record.PublicKey)
		return result
	})
}

// VerifyFile parses a JSON or CSV record file and verifies every record.
func (c *Client) VerifyFile(ctx context.Context, source string) ([]BatchResult, error) {
	records, err := ParserForFile(source).ParseRecords(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}
	return c.VerifyBatch(ctx, records)
}

// RecoverFile parses a JSON or CSV record file and recovers every record.
func (c *Client) RecoverFile(ctx context.Context, source string) ([]BatchResult, error) {
	records, err := ParserForFile(source).ParseRecords(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}
	return c.RecoverBatch(ctx, records)
}

// runBatch fans records out to a bounded worker pool.
func (c *Client) runBatch(ctx context.Context, mode string, records []*Record, process func(int, *Record) BatchResult) ([]BatchResult, error) {
	logger := c.logger.With().Str("component", "batch").Str("mode", mode).Logger()
	workers := c.numWorkers()
	logger.Debug().Int("records", len(records)).Int("workers", workers).Msg("starting batch")

	results := make([]BatchResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, record := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if record == nil || record.Signature == nil {
				results[i] = BatchResult{Index: i, Err: malformed(errors.New("record has no signature"))}
				return nil
			}
			results[i] = process(i, record)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for i := range results {
		if results[i].Err != nil {
			failed++
			logger.Debug().Int("index", i).Err(results[i].Err).Msg("record failed")
		}
	}
	logger.Info().Int("records", len(records)).Int("failed", failed).Msg("batch complete")
	return results, nil
}

func (c *Client) numWorkers() int {
	workers := c.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return min(workers, maxWorkers)
}
