package mutation

import (
	"fmt"
	"sync"

	"github.com/giantswarm/contacts/internal/profile"
	"github.com/giantswarm/contacts/internal/reconciler"
)

// TemplateFunc builds the seq-th template entity.
type TemplateFunc func(seq int) reconciler.Entity

// PlaceholderTemplate returns numbered placeholder contacts, each with its
// own address and therefore its own identity.
func PlaceholderTemplate(seq int) reconciler.Entity {
	return profile.Placeholder(fmt.Sprintf("person+%d@server.com", seq))
}

// Pool hands out entities for simulated inserts. Contacts removed by earlier
// batches are reused first, oldest first; when none are left a new template
// entity is built.
type Pool struct {
	mu       sync.Mutex
	recycled []reconciler.Entity
	template TemplateFunc
	seq      int
}

// NewPool creates a pool. A nil template uses PlaceholderTemplate.
func NewPool(template TemplateFunc) *Pool {
	if template == nil {
		template = PlaceholderTemplate
	}
	return &Pool{template: template}
}

// Put returns entities to the pool.
func (p *Pool) Put(entities ...reconciler.Entity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recycled = append(p.recycled, entities...)
}

// Take removes and returns the oldest recycled entity, or a new template.
func (p *Pool) Take() reconciler.Entity {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.recycled) > 0 {
		e := p.recycled[0]
		p.recycled = p.recycled[1:]
		return e
	}
	p.seq++
	return p.template(p.seq)
}

// Len reports how many recycled entities are waiting.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.recycled)
}

// Recycle brings the pool in line with one applied batch. Entities of prev
// whose ID no longer appears in next are put back, as are insert payloads of
// batch that the reconciler dropped. Recycled entities whose ID is in next
// again, for example because a mailbox edit restored them, are evicted so
// that no ID is handed out twice.
func (p *Pool) Recycle(prev, next reconciler.Collection, batch []reconciler.MutationRequest) int {
	present := make(map[string]bool, len(next))
	for _, e := range next {
		present[e.ID] = true
	}

	seen := make(map[string]bool)
	var gone []reconciler.Entity
	putBack := func(e reconciler.Entity) {
		if present[e.ID] || seen[e.ID] {
			return
		}
		seen[e.ID] = true
		gone = append(gone, e)
	}
	for _, e := range prev {
		putBack(e)
	}
	for _, req := range batch {
		if req.Kind == reconciler.KindInsert && req.Entity != nil {
			putBack(*req.Entity)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.recycled[:0]
	for _, e := range p.recycled {
		if !present[e.ID] && !seen[e.ID] {
			kept = append(kept, e)
		}
	}
	p.recycled = append(kept, gone...)
	return len(gone)
}
