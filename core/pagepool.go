package core

import "sync"

// PagePool provides reusable 256-byte page buffers for scan-oriented callers.
// Pages handed out by the pool are zeroed; callers that only partially fill a
// page can rely on the tail being zero.
type PagePool struct {
	pages sync.Pool
}

// NewPagePool creates a new page buffer pool.
func NewPagePool() *PagePool {
	return &PagePool{
		pages: sync.Pool{
			New: func() interface{} {
				return AlignedBytes(PageSize)
			},
		},
	}
}

// Get retrieves a zeroed page from the pool.
func (p *PagePool) Get() []byte {
	page := p.pages.Get().([]byte)
	for i := range page {
		page[i] = 0
	}
	return page
}

// Put returns a page to the pool. Short slices are dropped rather than
// recycled so Get always returns a full page.
func (p *PagePool) Put(page []byte) {
	if len(page) == PageSize {
		p.pages.Put(page)
	}
}
