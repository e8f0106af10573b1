package optimizer

import "container/list"

// evalCache is a fixed-capacity LRU of evaluations keyed by chromosome
// signature. Objectives are weight independent, so one cache serves every
// profile of a run.
type evalCache struct {
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cacheEntry struct {
	key string
	ev  Evaluation
}

func newEvalCache(capacity int) *evalCache {
	return &evalCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

func (c *evalCache) get(key string) (Evaluation, bool) {
	el, ok := c.entries[key]
	if !ok {
		return Evaluation{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).ev, true
}

func (c *evalCache) put(key string, ev Evaluation) {
	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).ev = ev
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, ev: ev})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *evalCache) len() int { return c.order.Len() }
