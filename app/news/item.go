package news

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Item is a normalized news article. It is built once by a source adapter
// and treated as a value afterwards.
type Item struct {
	Title       string
	Content     string
	URL         string
	Source      string
	PublishedAt time.Time
	Author      string
	HashID      string
}

func NewItem(title, content, url, source string, publishedAt *time.Time, author string) Item {
	item := Item{
		Title:   title,
		Content: content,
		URL:     url,
		Source:  source,
		Author:  author,
	}

	if publishedAt != nil && !publishedAt.IsZero() {
		item.PublishedAt = *publishedAt
	} else {
		item.PublishedAt = time.Now()
	}

	item.HashID = Hash(title, url, source)

	return item
}

// Hash returns the identity digest of an item. Equal (title, url, source)
// triples always produce the same value. Each field is length-prefixed so
// separators inside a field cannot shift the boundaries.
func Hash(title, url, source string) string {
	h := sha256.New()
	for _, field := range []string{title, url, source} {
		fmt.Fprintf(h, "%d:%s|", len(field), field)
	}

	return hex.EncodeToString(h.Sum(nil))
}

func (i Item) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"title":          i.Title,
		"content":        i.Content,
		"url":            i.URL,
		"source":         i.Source,
		"published_date": i.PublishedAt.Format(time.RFC3339),
		"author":         i.Author,
		"hash_id":        i.HashID,
	}
}

// IsRecent reports whether the item was published within maxAge of now.
// A non-positive maxAge disables the check.
func (i Item) IsRecent(maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 {
		return true
	}
	return !i.PublishedAt.Before(now.Add(-maxAge))
}

// Text is the combined text used for keyword matching and analysis.
func (i Item) Text() string {
	return i.Title + " " + i.Content
}
