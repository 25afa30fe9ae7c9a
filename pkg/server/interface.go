/*
Package server implements msgpack IPC for the name analytics services.

The server exposes search and recommendation over binary msgpack messages
exchanged on stdin/stdout, so a host process (the web presentation layer)
can drive the engine without linking it.

# IPC

Each frame is a 4-byte little-endian length followed by one msgpack message.
Requests carry an ID the response echoes back. A search request:

	{"id": "req_001", "cmd": "search", "q": {"text": "em", "sex": "f", "sort": "rarity", "limit": 20}}

yields ranked results with timing info:

	{"id": "req_001", "results": [{"n": "Emma", "s": "f", "rb": 2900}], "c": 1, "t": 145}

A recommend request carries the family context:

	{"id": "rec_001", "cmd": "recommend", "family": {"last_name": "Martin", "children": ["Léa"], "sex": "f"}}

Responses flag externally sourced candidates and include the external
reasoning when present. Malformed frames produce an error message with the
offending ID when it could be decoded.
*/
package server

// SearchQuery is the wire form of a search specification.
type SearchQuery struct {
	Text            string   `msgpack:"text,omitempty"`
	Sex             string   `msgpack:"sex,omitempty"`
	MinYear         int      `msgpack:"min_year,omitempty"`
	MaxYear         int      `msgpack:"max_year,omitempty"`
	MinLetters      int      `msgpack:"min_letters,omitempty"`
	MaxLetters      int      `msgpack:"max_letters,omitempty"`
	MinSyllables    int      `msgpack:"min_syllables,omitempty"`
	MaxSyllables    int      `msgpack:"max_syllables,omitempty"`
	MinRecentBirths int      `msgpack:"min_recent,omitempty"`
	MinTrend        *float64 `msgpack:"min_trend,omitempty"`
	MaxTrend        *float64 `msgpack:"max_trend,omitempty"`
	Sort            string   `msgpack:"sort,omitempty"`
	Limit           int      `msgpack:"limit,omitempty"`
}

// FamilyPayload is the wire form of a recommendation context.
type FamilyPayload struct {
	LastName      string   `msgpack:"last_name"`
	Children      []string `msgpack:"children,omitempty"`
	Sex           string   `msgpack:"sex,omitempty"`
	Bracket       string   `msgpack:"bracket,omitempty"`
	MaxLetters    int      `msgpack:"max_letters,omitempty"`
	MeaningWeight float64  `msgpack:"meaning_weight,omitempty"`
}

// Request is an incoming IPC frame.
type Request struct {
	ID     string         `msgpack:"id"`
	Cmd    string         `msgpack:"cmd"` // "search", "recommend", "health"
	Query  *SearchQuery   `msgpack:"q,omitempty"`
	Family *FamilyPayload `msgpack:"family,omitempty"`
}

// ResultName is one ranked name in a response.
type ResultName struct {
	Name         string  `msgpack:"n"`
	Sex          string  `msgpack:"s"`
	RecentBirths int     `msgpack:"rb"`
	TotalBirths  int     `msgpack:"tb,omitempty"`
	Score        float64 `msgpack:"sc,omitempty"`
	External     bool    `msgpack:"ext,omitempty"`
	Reasoning    string  `msgpack:"why,omitempty"`
}

// Response is a successful IPC reply.
type Response struct {
	ID        string       `msgpack:"id"`
	Status    string       `msgpack:"status,omitempty"`
	Results   []ResultName `msgpack:"results,omitempty"`
	Count     int          `msgpack:"c"`
	TimeTaken int64        `msgpack:"t"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id,omitempty"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
