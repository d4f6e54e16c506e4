package services

import (
	"context"
	"log"
	"strings"
	"transit-map-service/internal/ports"
	"unicode/utf8"
)

// MinSearchLength is the query length above which a lookup is issued.
const MinSearchLength = 3

type AddressSearch struct {
	Lookup ports.AddressLookup
	Cache  ports.SearchCache
}

// Search resolves text into candidates. Short queries never reach the
// lookup, and every failure degrades to an empty list.
func (a *AddressSearch) Search(ctx context.Context, text string) []ports.AddressResult {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= MinSearchLength || a.Lookup == nil {
		return []ports.AddressResult{}
	}

	if a.Cache != nil {
		cached, ok, err := a.Cache.Get(ctx, text)
		if err != nil {
			log.Printf("search address: cache read failed: %v", err)
		}
		if ok {
			return cached
		}
	}

	results, err := a.Lookup.Search(ctx, text)
	if err != nil {
		log.Printf("search address: lookup failed q=%q: %v", text, err)
		return []ports.AddressResult{}
	}
	if results == nil {
		results = []ports.AddressResult{}
	}

	if a.Cache != nil && len(results) > 0 {
		if err := a.Cache.Put(ctx, text, results); err != nil {
			log.Printf("search address: cache write failed: %v", err)
		}
	}
	return results
}
