// Package latest tags outgoing reads so that only the most recently issued
// one per category is applied when responses arrive out of order.
package latest

import "sync"

// Tag identifies one issued read. Key is the fingerprint of the parameters
// (month, filters) the read was issued with.
type Tag struct {
	Category string
	Seq      uint64
	Key      string
}

// Tracker issues tags and answers whether a tag is still the latest.
// The zero value is ready to use.
type Tracker struct {
	mu     sync.Mutex
	issued map[string]Tag
}

func (t *Tracker) Issue(category, key string) Tag {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.issued == nil {
		t.issued = make(map[string]Tag)
	}
	tag := Tag{Category: category, Seq: t.issued[category].Seq + 1, Key: key}
	t.issued[category] = tag
	return tag
}

// Current reports whether tag is the most recent one issued in its category.
func (t *Tracker) Current(tag Tag) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.issued[tag.Category] == tag
}

// Latest returns the most recent tag of a category.
func (t *Tracker) Latest(category string) (Tag, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tag, ok := t.issued[category]
	return tag, ok
}
