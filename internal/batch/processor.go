// Package batch parses many transcripts at once, keeping their input order.
package batch

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"fjacquet/speech-expense/internal/logging"
	"fjacquet/speech-expense/internal/models"
	"fjacquet/speech-expense/internal/speechparser"
)

// SequentialThreshold is the record count below which workers are not worth
// starting.
const SequentialThreshold = 100

// Processor runs the speech parser over batches of transcript records.
type Processor struct {
	parser      *speechparser.Parser
	index       speechparser.CategoryIndex
	logger      logging.Logger
	workerCount int
}

// NewProcessor creates a processor. A worker count of zero or less uses one
// worker per CPU.
func NewProcessor(parser *speechparser.Parser, index speechparser.CategoryIndex, workers int, logger logging.Logger) *Processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Processor{
		parser:      parser,
		index:       index,
		logger:      logger,
		workerCount: workers,
	}
}

// WorkerCount returns the number of workers used for large batches.
func (p *Processor) WorkerCount() int {
	return p.workerCount
}

// Process parses every record. Results line up with records by position.
// It stops early and returns ctx.Err() when the context is cancelled.
func (p *Processor) Process(ctx context.Context, records []models.TranscriptRecord) ([]models.ResultRecord, error) {
	start := time.Now()

	var (
		results []models.ResultRecord
		err     error
	)
	if len(records) < SequentialThreshold || p.workerCount == 1 {
		results, err = p.processSequential(ctx, records)
	} else {
		results, err = p.processConcurrent(ctx, records)
	}
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Batch processing completed",
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: logging.FieldWorkers, Value: p.workerCount},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return results, nil
}

func (p *Processor) parse(record models.TranscriptRecord) models.ResultRecord {
	return models.NewResultRecord(record, p.parser.ParseIndexed(record.Transcript, p.index))
}

func (p *Processor) processSequential(ctx context.Context, records []models.TranscriptRecord) ([]models.ResultRecord, error) {
	results := make([]models.ResultRecord, 0, len(records))
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, p.parse(record))
	}
	return results, nil
}

// indexedResult preserves the original position of a record.
type indexedResult struct {
	index  int
	result models.ResultRecord
}

func (p *Processor) processConcurrent(ctx context.Context, records []models.TranscriptRecord) ([]models.ResultRecord, error) {
	jobs := make(chan int, p.workerCount)
	resultChan := make(chan indexedResult, len(records))

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg, records, jobs, resultChan)
	}

	go func() {
		defer close(jobs)
		for i := range records {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]models.ResultRecord, len(records))
	received := 0
	for r := range resultChan {
		results[r.index] = r.result
		received++
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if received != len(records) {
		return nil, context.Canceled
	}
	return results, nil
}

func (p *Processor) worker(ctx context.Context, wg *sync.WaitGroup, records []models.TranscriptRecord, jobs <-chan int, resultChan chan<- indexedResult) {
	defer wg.Done()

	for {
		select {
		case i, ok := <-jobs:
			if !ok {
				return
			}
			resultChan <- indexedResult{index: i, result: p.parse(records[i])}
		case <-ctx.Done():
			return
		}
	}
}

// CategoryCount is the number of results that landed in one category.
type CategoryCount struct {
	CategoryID string
	Count      int
}

// Summary aggregates a batch of results.
type Summary struct {
	Total         int
	WithAmount    int
	Categorized   int
	Uncategorized int
	ByCategory    []CategoryCount
}

// Summarize counts results per category, most frequent first then by id.
func Summarize(results []models.ResultRecord) Summary {
	s := Summary{Total: len(results)}
	counts := make(map[string]int)
	for _, r := range results {
		if r.Amount != "" {
			s.WithAmount++
		}
		if r.CategoryID == "" {
			s.Uncategorized++
			continue
		}
		s.Categorized++
		counts[r.CategoryID]++
	}

	for id, n := range counts {
		s.ByCategory = append(s.ByCategory, CategoryCount{CategoryID: id, Count: n})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if s.ByCategory[i].Count != s.ByCategory[j].Count {
			return s.ByCategory[i].Count > s.ByCategory[j].Count
		}
		return s.ByCategory[i].CategoryID < s.ByCategory[j].CategoryID
	})
	return s
}
