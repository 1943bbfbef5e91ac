// internal/search/keys.go
package search

import (
	"regexp"
	"strings"
)

// SearchKey identifies one metadata column addressable from the free-text
// query grammar.
type SearchKey string

const (
	SearchKeyCollection SearchKey = "col"
	SearchKeyCommunity  SearchKey = "com"
	SearchKeyPaketSigel SearchKey = "sig"
	SearchKeyTitle      SearchKey = "tit"
	SearchKeyZDBID      SearchKey = "zdb"
	SearchKeyHandle     SearchKey = "hdl"
	SearchKeyPPN        SearchKey = "ppn"
)

// ParseSearchKey reports whether the given token key is recognized.
func ParseSearchKey(s string) (SearchKey, bool) {
	switch SearchKey(s) {
	case SearchKeyCollection, SearchKeyCommunity, SearchKeyPaketSigel,
		SearchKeyTitle, SearchKeyZDBID, SearchKeyHandle, SearchKeyPPN:
		return SearchKey(s), true
	}
	return "", false
}

// Column is the item_metadata column the key addresses.
func (k SearchKey) Column() string {
	switch k {
	case SearchKeyCollection:
		return "collection_name"
	case SearchKeyCommunity:
		return "community_name"
	case SearchKeyPaketSigel:
		return "paket_sigel"
	case SearchKeyTitle:
		return "title"
	case SearchKeyZDBID:
		return "zdb_id"
	case SearchKeyHandle:
		return "handle"
	case SearchKeyPPN:
		return "ppn"
	}
	return ""
}

// SearchPair is one parsed key:value token.
type SearchPair struct {
	Key    SearchKey `json:"key"`
	Values string    `json:"values"`
}

// ParsedQuery is the outcome of parsing a free-text search term. Unknown
// keys and stray tokens are diagnostics, not errors: the remaining valid
// pairs still run.
type ParsedQuery struct {
	Pairs             []SearchPair
	InvalidKeys       []string
	HasTokenWithNoKey bool
}

// Valid token shapes: key:value, key:'quoted value', key:"quoted value".
var searchTokenRegex = regexp.MustCompile(`\w+:[^"'][\S]+|\w+:'(?:\s|[^'])+'|\w+:"(?:\s|[^"])+`)

// ParseQuery tokenizes a search term into valid search pairs plus
// diagnostics for unrecognized keys and tokens carrying no key at all.
func ParseQuery(term string) ParsedQuery {
	parsed := ParsedQuery{}
	if strings.TrimSpace(term) == "" {
		return parsed
	}

	for _, token := range tokenizeSearchInput(term) {
		rawKey, value, _ := strings.Cut(token, ":")
		key, ok := ParseSearchKey(rawKey)
		if !ok {
			parsed.InvalidKeys = append(parsed.InvalidKeys, rawKey)
			continue
		}
		parsed.Pairs = append(parsed.Pairs, SearchPair{
			Key:    key,
			Values: strings.TrimSpace(value),
		})
	}

	parsed.HasTokenWithNoKey = hasSearchTokenWithNoKey(term)
	return parsed
}

// PairsToString renders pairs back into the canonical term representation.
// ParseQuery(PairsToString(pairs)) yields the same pairs.
func PairsToString(pairs []SearchPair) string {
	rendered := make([]string, 0, len(pairs))
	for _, p := range pairs {
		rendered = append(rendered, string(p.Key)+":'"+p.Values+"'")
	}
	return strings.Join(rendered, " ")
}

func tokenizeSearchInput(term string) []string {
	matches := searchTokenRegex.FindAllString(term, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, strings.Map(func(r rune) rune {
			if r == '\'' || r == '"' {
				return -1
			}
			return r
		}, m))
	}
	return tokens
}

func hasSearchTokenWithNoKey(term string) bool {
	rest := strings.TrimSpace(searchTokenRegex.ReplaceAllString(strings.TrimSpace(term), ""))
	return rest != ""
}
