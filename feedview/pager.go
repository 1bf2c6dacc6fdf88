package feedview

import "github.com/Trung-Hieu-Le/forum-cli/model"

// Pager owns the feed pagination cursor: which page is loaded, how
// many pages exist, and whether a fetch is outstanding. Pages are
// requested strictly in ascending order and never concurrently; the
// loading flag is the only gate and stays set from the moment a fetch
// is issued until it settles, success or failure.
//
// The pager is pure state. Issuing the actual network request is the
// caller's job after StartNext/StartReload grants the transition.
type Pager struct {
	items      []model.Thread
	page       int
	totalPages int
	loading    bool
	loaded     bool // A reload has completed at least once.

	// A reload requested while a page fetch was in flight. Honored as
	// soon as the outstanding fetch settles, so the foreground reload
	// is never lost to a background append.
	pendingReload bool

	seen map[model.ThreadID]bool
}

func NewPager() Pager {
	return Pager{totalPages: -1, seen: make(map[model.ThreadID]bool)}
}

func (p *Pager) Items() []model.Thread { return p.items }
func (p *Pager) Page() int             { return p.page }
func (p *Pager) TotalPages() int       { return p.totalPages }
func (p *Pager) Loading() bool         { return p.loading }

// Empty reports whether a completed reload produced no items, which
// renders as the placeholder instead of a blank list.
func (p *Pager) Empty() bool { return p.loaded && len(p.items) == 0 }

// HasNext reports whether another page exists beyond the current one.
// False until the first reload settles (totalPages unknown).
func (p *Pager) HasNext() bool {
	return p.totalPages >= 0 && p.page+1 < p.totalPages
}

// StartNext transitions Idle -> Loading for the next page fetch.
// Returns the page index to request, or ok=false when a fetch is
// already outstanding or no next page exists.
func (p *Pager) StartNext() (page int, ok bool) {
	if p.loading || !p.HasNext() {
		return 0, false
	}
	p.loading = true
	return p.page + 1, true
}

// StartReload transitions to Loading for a fresh page-0 fetch. When a
// fetch is already in flight the reload is remembered instead of
// dropped, and replayed after the in-flight request settles.
func (p *Pager) StartReload() (ok bool) {
	if p.loading {
		p.pendingReload = true
		return false
	}
	p.loading = true
	return true
}

// TakePendingReload consumes the deferred-reload flag. Call after a
// fetch settles; when true the caller starts the reload transition.
func (p *Pager) TakePendingReload() bool {
	pending := p.pendingReload
	p.pendingReload = false
	return pending
}

// ApplyPage appends a fetched page's items in server order and settles
// back to Idle. Items whose id is already visible are skipped, so the
// list never shows a duplicate even when a new post shifted the
// server's page boundaries between fetches.
func (p *Pager) ApplyPage(requested int, feedPage model.FeedPage) {
	for _, thread := range feedPage.Content {
		if p.seen[thread.ID] {
			continue
		}
		p.seen[thread.ID] = true
		p.items = append(p.items, thread)
	}
	p.page = requested
	p.totalPages = feedPage.TotalPages
	p.loading = false
}

// ApplyReload replaces the entire visible list with a fresh page 0 and
// resets the cursor. The old items are fully discarded.
func (p *Pager) ApplyReload(feedPage model.FeedPage) {
	p.items = nil
	p.seen = make(map[model.ThreadID]bool)
	for _, thread := range feedPage.Content {
		if p.seen[thread.ID] {
			continue
		}
		p.seen[thread.ID] = true
		p.items = append(p.items, thread)
	}
	p.page = 0
	p.totalPages = feedPage.TotalPages
	p.loading = false
	p.loaded = true
}

// Fail settles a failed fetch back to Idle. Already-rendered items
// stay intact; the user can scroll again to retry.
func (p *Pager) Fail() {
	p.loading = false
}
