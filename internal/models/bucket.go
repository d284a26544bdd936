package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Bucket is the nullable bucket id of a row. The zero value is unset.
type Bucket struct {
	ID  int
	Set bool
}

// NoBucket is the unset bucket.
var NoBucket = Bucket{}

// BucketOf returns a set bucket with the given id.
func BucketOf(id int) Bucket {
	return Bucket{ID: id, Set: true}
}

// Is reports whether b is set to id.
func (b Bucket) Is(id int) bool {
	return b.Set && b.ID == id
}

func (b Bucket) String() string {
	if !b.Set {
		return ""
	}
	return strconv.Itoa(b.ID)
}

// MarshalCSV implements gocsv.TypeMarshaller; unset buckets are empty cells.
func (b Bucket) MarshalCSV() (string, error) {
	return b.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller. Spreadsheets exported by
// other tools write integer columns as floats ("5.0") and blanks as "nan".
func (b *Bucket) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "none", "<na>":
		*b = NoBucket
		return nil
	}
	s = strings.TrimSuffix(s, ".0")
	id, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid bucket %q: %w", s, err)
	}
	if id < 0 {
		return fmt.Errorf("invalid bucket %q: must not be negative", s)
	}
	*b = BucketOf(id)
	return nil
}
