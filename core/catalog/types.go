package catalog

import (
	"encoding/json"
	"sort"
)

// RawItem is one entry of a page's results array, kept undecoded until its kind's adapter reads it.
type RawItem = json.RawMessage

// Response is a completed HTTP exchange.
type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Page is the outcome of fetching one page.
type Page struct {
	// Number is the 1-based page number.
	Number int
	// Items holds the decoded results array, nil when Err is set.
	Items []RawItem
	// Attempts is how many requests were made for this page.
	Attempts int
	// Err is the last error when every attempt failed.
	Err error
}

// Collection gathers the pages of one endpoint, sorted by page number.
type Collection struct {
	Endpoint string
	Pages    []Page
}

// Items returns the items of every successful page in page order.
func (c *Collection) Items() []RawItem {
	var items []RawItem
	for _, p := range c.Pages {
		if p.Err == nil {
			items = append(items, p.Items...)
		}
	}
	return items
}

// Failed returns the pages whose every attempt failed.
func (c *Collection) Failed() []Page {
	var failed []Page
	for _, p := range c.Pages {
		if p.Err != nil {
			failed = append(failed, p)
		}
	}
	return failed
}

func (c *Collection) sort() {
	sort.Slice(c.Pages, func(i, j int) bool {
		return c.Pages[i].Number < c.Pages[j].Number
	})
}
