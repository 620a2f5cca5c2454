package listing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/cinelist/internal/domain"
)

// Options configures an Orchestrator
type Options struct {
	// PageTimeout bounds each fetch; zero leaves it to the transport
	PageTimeout time.Duration
	Logger      *slog.Logger
}

// Orchestrator owns one paginated, filtered list of catalog items.
//
// The mutex guards fields only and is never held across a fetch. Every reset
// bumps the generation and cancels the previous generation's context; a
// completion carrying an older generation is discarded, so results always
// belong to the most recent ResetAndLoad.
type Orchestrator struct {
	catalog     domain.Catalog
	logger      *slog.Logger
	pageTimeout time.Duration

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu            sync.Mutex
	params        domain.QueryParameters
	items         []domain.CatalogItem // stored (unfiltered) items
	cursor        domain.Cursor
	hasMore       bool
	isLoading     bool
	isLoadingMore bool
	err           string
	phase         Phase
	revision      uint64
	closed        bool

	generation uint64
	genCtx     context.Context
	genCancel  context.CancelFunc

	inFlight int
	idle     chan struct{} // closed when inFlight drops to zero

	observers map[int]Observer
	nextObsID int
}

// New creates an idle orchestrator
func New(catalog domain.Catalog, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		catalog:     catalog,
		logger:      logger,
		pageTimeout: opts.PageTimeout,
		baseCtx:     ctx,
		baseCancel:  cancel,
		observers:   make(map[int]Observer),
	}
}

// ResetAndLoad discards the current list and loads the first page for params.
// Valid from any phase. The reset is visible synchronously; the fetch runs in
// the background.
func (o *Orchestrator) ResetAndLoad(params domain.QueryParameters) {
	params.Genres = domain.NewGenreSet(params.Genres...)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	if o.genCancel != nil {
		o.genCancel()
	}
	o.generation++
	gen := o.generation
	o.genCtx, o.genCancel = context.WithCancel(o.baseCtx)
	ctx := o.genCtx

	o.params = params
	o.items = nil
	o.cursor = ""
	o.hasMore = false
	o.isLoading = true
	o.isLoadingMore = false
	o.err = ""
	o.phase = PhaseResetting
	o.beginLocked()
	snap := o.changedLocked()
	o.mu.Unlock()

	o.logger.Debug("list reset",
		"generation", gen,
		"kind", params.Kind,
		"sort", params.Sort,
		"genres", params.Genres,
		"search", params.SearchText)
	o.notify(snap)

	go o.runReset(ctx, gen, params)
}

func (o *Orchestrator) runReset(ctx context.Context, gen uint64, params domain.QueryParameters) {
	defer o.end()

	page, err := o.fetch(ctx, params, "")

	o.mu.Lock()
	if gen != o.generation || o.closed {
		o.mu.Unlock()
		o.logger.Debug("discarding stale reset result", "generation", gen)
		return
	}
	o.isLoading = false
	if err != nil {
		o.items = nil
		o.cursor = ""
		o.hasMore = false
		o.err = domain.UserMessage(err)
		o.phase = PhaseError
	} else {
		o.items = page.Items
		o.cursor = page.Next
		o.hasMore = len(page.Items) > 0 && page.Next != ""
		o.phase = PhaseReady
	}
	snap := o.changedLocked()
	o.mu.Unlock()

	if err != nil {
		o.logger.Error("list load failed", "generation", gen, "error", err)
	} else {
		o.logger.Debug("list loaded", "generation", gen, "count", len(page.Items), "hasMore", snap.HasMore)
	}
	o.notify(snap)
}

// LoadNextPage appends the next page. It returns false without doing anything
// while a page is already loading, while a reset is in flight, or when the
// list has no more pages.
func (o *Orchestrator) LoadNextPage() bool {
	o.mu.Lock()
	if o.closed || o.isLoading || o.isLoadingMore || !o.hasMore {
		o.mu.Unlock()
		return false
	}
	gen := o.generation
	ctx := o.genCtx
	params := o.params
	cursor := o.cursor

	o.isLoadingMore = true
	o.err = ""
	o.phase = PhaseLoadingMore
	o.beginLocked()
	snap := o.changedLocked()
	o.mu.Unlock()

	o.logger.Debug("loading next page", "generation", gen, "cursor", cursor)
	o.notify(snap)

	go o.runNextPage(ctx, gen, params, cursor)
	return true
}

func (o *Orchestrator) runNextPage(ctx context.Context, gen uint64, params domain.QueryParameters, cursor domain.Cursor) {
	defer o.end()

	page, err := o.fetch(ctx, params, cursor)

	o.mu.Lock()
	if gen != o.generation || o.closed {
		o.mu.Unlock()
		o.logger.Debug("discarding stale page result", "generation", gen)
		return
	}
	o.isLoadingMore = false
	o.phase = PhaseReady
	if err != nil {
		// Items and hasMore stay; scrolling again retries
		o.err = domain.UserMessage(err)
	} else {
		o.items = append(o.items, page.Items...)
		o.cursor = page.Next
		o.hasMore = len(page.Items) > 0 && page.Next != ""
	}
	snap := o.changedLocked()
	o.mu.Unlock()

	if err != nil {
		o.logger.Warn("next page failed", "generation", gen, "cursor", cursor, "error", err)
	} else {
		o.logger.Debug("page appended", "generation", gen, "count", len(page.Items), "total", len(snap.Items), "hasMore", snap.HasMore)
	}
	o.notify(snap)
}

func (o *Orchestrator) fetch(ctx context.Context, params domain.QueryParameters, cursor domain.Cursor) (domain.Page, error) {
	if o.pageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.pageTimeout)
		defer cancel()
	}
	if params.IsSearch() {
		return o.catalog.Search(ctx, params.SearchText, params.Kind, cursor)
	}
	return o.catalog.FetchList(ctx, params.Kind, params.Sort, params.Genres, cursor)
}

// Retry reloads the current parameters from scratch
func (o *Orchestrator) Retry() {
	o.ResetAndLoad(o.Params())
}

// Params returns the parameters of the current list
func (o *Orchestrator) Params() domain.QueryParameters {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.params
}

// Snapshot returns the current state
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) changedLocked() State {
	o.revision++
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() State {
	return State{
		Items:         o.exposedLocked(),
		IsLoading:     o.isLoading,
		IsLoadingMore: o.isLoadingMore,
		Err:           o.err,
		HasMore:       o.hasMore,
		Phase:         o.phase,
		Params:        o.params,
		Revision:      o.revision,
	}
}

// exposedLocked applies the genre post-filter to search results. Discover
// results are already filtered remotely and pass through untouched.
func (o *Orchestrator) exposedLocked() []domain.CatalogItem {
	if !o.params.NeedsPostFilter() {
		// Clip so a consumer's append can never write into o.items
		return o.items[:len(o.items):len(o.items)]
	}
	filtered := make([]domain.CatalogItem, 0, len(o.items))
	for _, item := range o.items {
		if item.HasAnyGenre(o.params.Genres) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Subscribe registers an observer and returns a function that removes it.
// Observers are called outside the lock, possibly from fetch goroutines.
func (o *Orchestrator) Subscribe(obs Observer) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextObsID
	o.nextObsID++
	o.observers[id] = obs
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.observers, id)
		o.mu.Unlock()
	}
}

func (o *Orchestrator) notify(s State) {
	o.mu.Lock()
	observers := make([]Observer, 0, len(o.observers))
	for _, obs := range o.observers {
		observers = append(observers, obs)
	}
	o.mu.Unlock()

	for _, obs := range observers {
		obs.OnStateChange(s)
	}
}

func (o *Orchestrator) beginLocked() {
	if o.inFlight == 0 {
		o.idle = make(chan struct{})
	}
	o.inFlight++
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.inFlight--
	if o.inFlight == 0 {
		close(o.idle)
	}
	o.mu.Unlock()
}

// Wait blocks until no fetch is in flight or ctx is done
func (o *Orchestrator) Wait(ctx context.Context) error {
	o.mu.Lock()
	if o.inFlight == 0 {
		o.mu.Unlock()
		return nil
	}
	idle := o.idle
	o.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels in-flight fetches; later calls become no-ops
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.baseCancel()
}
