// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Accepted is one entry of an Accept header.
type Accepted struct {
	MediaType string
	Quality   float64
}

// ParseAccepted returns the entries of an Accept header ordered by
// decreasing quality, keeping header order between equal qualities. When
// canProduce is given, entries that match none of its media types are
// dropped; "*/*" and "type/*" match by prefix. Entries with q=0 are
// dropped.
func ParseAccepted(accept string, canProduce ...string) []Accepted {
	var result []Accepted
	for _, part := range strings.Split(accept, ",") {
		fields := strings.Split(part, ";")
		mediaType := strings.ToLower(strings.TrimSpace(fields[0]))
		if mediaType == "" {
			continue
		}
		q := 1.0
		for _, param := range fields[1:] {
			k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || strings.TrimSpace(k) != "q" {
				continue
			}
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				q = f
			}
		}
		if q <= 0 {
			continue
		}
		if len(canProduce) > 0 && !slices.ContainsFunc(canProduce, func(p string) bool {
			return mediaMatches(mediaType, strings.ToLower(p))
		}) {
			continue
		}
		result = append(result, Accepted{MediaType: mediaType, Quality: q})
	}
	slices.SortStableFunc(result, func(a, b Accepted) int {
		return cmp.Compare(b.Quality, a.Quality)
	})
	return result
}

func mediaMatches(pattern, mediaType string) bool {
	if pattern == "*/*" || pattern == mediaType {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(mediaType, prefix)
	}
	return false
}

// Negotiate picks the response codec for a request. The best Accept entry
// decides; when there is none, or it names no registered format, the
// request Content-Type decides; failing that the default codec is used.
func Negotiate(accept, contentType string) Codec {
	if entries := ParseAccepted(accept); len(entries) > 0 {
		if name := formatOf(entries[0].MediaType); name != Default || strings.Contains(entries[0].MediaType, Default) {
			return MustLookup(name)
		}
	}
	return ForContentType(contentType)
}
