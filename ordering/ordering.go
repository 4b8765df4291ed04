package ordering

import (
	"errors"
	"fmt"
)

// ItemType is the type discriminator each batched reorder request is tagged with.
type ItemType string

const (
	TypeModule    ItemType = "module"
	TypeArticle   ItemType = "article"
	TypeQuestion  ItemType = "question"
	TypeQuiz      ItemType = "quiz"
	TypePastPaper ItemType = "pastPaper"
)

// lessonTypes is the bucket order for a lesson reorder.
var lessonTypes = []ItemType{TypeArticle, TypeQuestion, TypeQuiz, TypePastPaper}

var ErrUnknownType = errors.New("unknown item type")

// ParseItemType accepts the discriminators used on the wire.
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(s); t {
	case TypeModule, TypeArticle, TypeQuestion, TypeQuiz, TypePastPaper:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// IsLesson reports whether t names one of the four lesson collections.
func (t ItemType) IsLesson() bool {
	return t == TypeArticle || t == TypeQuestion || t == TypeQuiz || t == TypePastPaper
}

// Item is one row of a user-reordered mixed list.
type Item struct {
	ID   string   `json:"id" validate:"required"`
	Type ItemType `json:"type" validate:"required"`
}

// Entry carries the new order of one item.
type Entry struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Bucket is the payload of one batched update: same-type entries under one scope
// (the module id for lessons, the course id for modules).
type Bucket struct {
	Type    ItemType `json:"type"`
	Scope   string   `json:"scope"`
	Entries []Entry  `json:"entries"`
}

// Partition splits a reordered lesson list into same-type buckets. The position of an
// item in the list becomes its new order, so the merged sequence reproduces the list.
// Empty buckets are omitted.
func Partition(scope string, items []Item) ([]Bucket, error) {
	grouped := make(map[ItemType][]Entry, len(lessonTypes))
	seen := make(map[Item]struct{}, len(items))
	for i, it := range items {
		if !it.Type.IsLesson() {
			return nil, fmt.Errorf("%w: %q at position %d", ErrUnknownType, it.Type, i)
		}
		if _, dup := seen[it]; dup {
			return nil, fmt.Errorf("duplicate %s %q in reorder list", it.Type, it.ID)
		}
		seen[it] = struct{}{}
		grouped[it.Type] = append(grouped[it.Type], Entry{ID: it.ID, Order: i})
	}

	buckets := make([]Bucket, 0, len(grouped))
	for _, t := range lessonTypes {
		if entries := grouped[t]; len(entries) > 0 {
			buckets = append(buckets, Bucket{Type: t, Scope: scope, Entries: entries})
		}
	}
	return buckets, nil
}

// ModuleBuckets builds the single module bucket keyed by course id.
func ModuleBuckets(courseID string, moduleIDs []string) []Bucket {
	if len(moduleIDs) == 0 {
		return nil
	}
	entries := make([]Entry, len(moduleIDs))
	for i, id := range moduleIDs {
		entries[i] = Entry{ID: id, Order: i}
	}
	return []Bucket{{Type: TypeModule, Scope: courseID, Entries: entries}}
}
