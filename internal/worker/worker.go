package worker

import (
	"context"
	"sync"

	"github.com/lvasseur/go-landslides/internal/models"
)

type ProcessFunc func(ctx context.Context, event *models.Event) error

// Pool runs a bounded number of workers over submitted catalog events. The
// ingest layer uses it at startup to persist the loaded catalog; Stop drains
// the queue before returning, so every submitted event gets processed.
type Pool struct {
	numWorkers int
	events     chan *models.Event
	processor  ProcessFunc
	wg         sync.WaitGroup
}

func NewPool(numWorkers int, bufferSize int, processor ProcessFunc) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		events:     make(chan *models.Event, bufferSize),
		processor:  processor,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-p.events:
			if !ok {
				return
			}
			p.processor(ctx, event)
		}
	}
}

func (p *Pool) Submit(event *models.Event) {
	p.events <- event
}

func (p *Pool) Stop() {
	close(p.events)
	p.wg.Wait()
}
