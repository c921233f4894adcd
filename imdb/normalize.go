package imdb

import (
	"encoding/json"
	"strconv"
	"strings"
)

// parseYear extracts a release year from whatever the remote sent: a plain
// number, a numeric string, or a range-like string such as "1999–2001" (the
// portion before the en-dash wins). Anything unparsable yields nil.
func parseYear(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(strings.SplitN(s, "–", 2)[0])
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// parseRating is a best-effort float parse; failure yields nil.
func parseRating(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

// joinNames flattens a list field whose elements may be plain strings or
// objects carrying displayName with a name fallback, joining them with ", ".
func joinNames(items []json.RawMessage) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			parts = append(parts, s)
			continue
		}

		var obj struct {
			DisplayName string `json:"displayName"`
			Name        string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			if obj.DisplayName != "" {
				parts = append(parts, obj.DisplayName)
			} else if obj.Name != "" {
				parts = append(parts, obj.Name)
			} else {
				parts = append(parts, string(item))
			}
			continue
		}

		parts = append(parts, string(item))
	}
	return strings.Join(parts, ", ")
}

// flattenTitle projects a wire document into the system schema, applying the
// primaryTitle → originalTitle fallback chain.
func flattenTitle(id string, doc titleDoc) *Title {
	title := doc.PrimaryTitle
	if title == "" {
		title = doc.OriginalTitle
	}

	t := &Title{
		IMDbID:   id,
		Title:    title,
		Year:     parseYear(doc.StartYear),
		Genre:    joinNames(doc.Genres),
		Director: joinNames(doc.Directors),
		Plot:     doc.Plot,
	}
	if doc.PrimaryImage != nil {
		t.Poster = doc.PrimaryImage.URL
	}
	if doc.Rating != nil {
		t.Rating = parseRating(doc.Rating.AggregateRating)
	}
	return t
}
