// Package types provides type definitions for structured data used throughout the IntelliHire system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"time"
)

// ISOLayout is the millisecond-precision UTC layout used for every stored timestamp.
// Values in this layout sort lexicographically in time order.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Timestamp is a point in time serialized as an ISO-8601 string.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns t truncated to milliseconds in UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

// ParseTimestamp parses a timestamp written by Timestamp.String.
// RFC 3339 input is accepted as well.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return Timestamp{}, err
		}
	}
	return NewTimestamp(t), nil
}

// String returns the ISO representation
func (t Timestamp) String() string {
	return t.UTC().Format(ISOLayout)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
