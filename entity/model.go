// Package entity holds the records passed between retrievers, the formatter and the stores
package entity

// Field is a named value of a feed entry
type Field struct {
	Key   string
	Value string
}

// FeedEntry is a flat record of one published item, fields keep the order the retriever produced
type FeedEntry []Field

// Get returns the value of a field and whether it is present
func (e FeedEntry) Get(key string) (string, bool) {
	for _, f := range e {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing field or appends a new one
func (e FeedEntry) Set(key, value string) FeedEntry {
	for i := range e {
		if e[i].Key == key {
			e[i].Value = value
			return e
		}
	}
	return append(e, Field{Key: key, Value: value})
}

// NewEntry builds an entry from key/value pairs
func NewEntry(pairs ...string) FeedEntry {
	entry := make(FeedEntry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entry = entry.Set(pairs[i], pairs[i+1])
	}
	return entry
}
