package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Token is the short-lived bearer credential returned by the token
// exchange. It is valid only for the current invocation; the CLI never
// caches or refreshes it across runs.
type Token struct {
	Value        string
	ExpirationMS int64
}

// EpochMS is an epoch-millisecond timestamp decoded leniently from the
// listing payload. Numbers and numeric strings parse into MS; anything
// else keeps its raw JSON form so the renderer can fall back to it
// instead of failing the whole payload.
type EpochMS struct {
	MS    int64
	Valid bool
	Raw   string // original JSON token when parsing failed
}

// EpochMSOf returns a valid timestamp for a known epoch-ms value.
func EpochMSOf(ms int64) EpochMS {
	return EpochMS{MS: ms, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *EpochMS) UnmarshalJSON(data []byte) error {
	*e = EpochMS{}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		if i, err := num.Int64(); err == nil {
			*e = EpochMS{MS: i, Valid: true}
			return nil
		}
		if f, err := num.Float64(); err == nil {
			*e = EpochMS{MS: int64(f), Valid: true}
			return nil
		}
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			*e = EpochMS{MS: i, Valid: true}
			return nil
		}
		e.Raw = s
		return nil
	}

	e.Raw = trimmed
	return nil
}

// MarshalJSON implements json.Marshaler; valid timestamps re-encode as
// plain numbers, failed ones as their raw string form.
func (e EpochMS) MarshalJSON() ([]byte, error) {
	if e.Valid {
		return json.Marshal(e.MS)
	}
	if e.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(e.Raw)
}

// FlexString is a string cell decoded leniently. JSON strings decode
// verbatim and null to empty; any other value keeps its compact JSON
// text, so a wrong-typed cell degrades the same way a bad timestamp
// does instead of failing the payload.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(str)
		return nil
	}

	*s = FlexString(trimmed)
	return nil
}

// StorageSystemRecord is one storage system in the tenant's listing.
// The API returns many more fields; only the ones the table consumes
// are decoded, everything else is ignored. Missing fields stay at their
// zero values and render as empty/placeholder cells.
type StorageSystemRecord struct {
	Name                  FlexString `json:"name"`
	LastSuccessfulProbe   EpochMS    `json:"last_successful_probe"`
	LastSuccessfulMonitor EpochMS    `json:"last_successful_monitor"`
	Condition             FlexString `json:"condition"`
}

// StorageSystemsPayload is the decoded storage-systems listing. Data is
// kept in API order; a payload without a "data" field decodes to an
// empty listing rather than an error.
type StorageSystemsPayload struct {
	StorageType string                `json:"storageType"`
	Data        []StorageSystemRecord `json:"data"`

	// Raw preserves the verbatim response body for the --json-out
	// artifact, including fields the table never consumes.
	Raw json.RawMessage `json:"-"`
}
