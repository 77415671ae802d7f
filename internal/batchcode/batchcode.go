// internal/batchcode/batchcode.go
package batchcode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lacra/agritrace-backend/internal/errs"
)

const (
	MinSequence = 1
	MaxSequence = 999

	dateLayout = "20060102"
)

// CanonicalPattern is the printed label format scanned downstream.
var CanonicalPattern = regexp.MustCompile(`^[A-Z]{3}-[A-Z]{3}-\d{8}-\d{3}$`)

var parsePattern = regexp.MustCompile(`^([A-Z]{3})-([A-Z]{3})-(\d{8})-(\d{3})([A-Z]?)$`)

// Key is the composite key a sequence number is unique within. Overflow is
// empty for the primary key space and a letter A-Z for widened keys.
type Key struct {
	CropPrefix string `json:"crop_prefix"`
	CountyCode string `json:"county_code"`
	DateStamp  string `json:"date_stamp"`
	Overflow   string `json:"overflow,omitempty"`
}

func (k Key) String() string {
	s := k.CropPrefix + ":" + k.CountyCode + ":" + k.DateStamp
	if k.Overflow != "" {
		s += ":" + k.Overflow
	}
	return s
}

// Date returns the harvest day of the key at UTC midnight.
func (k Key) Date() (time.Time, error) {
	return time.Parse(dateLayout, k.DateStamp)
}

// Widen returns the key for the given overflow letter.
func (k Key) Widen(letter byte) Key {
	k.Overflow = string(letter)
	return k
}

// BatchCode is an issued traceability identifier. It is a value; once
// formatted it never changes.
type BatchCode struct {
	CropPrefix string
	CountyCode string
	DateStamp  string
	Sequence   int
	Overflow   string
}

func (b BatchCode) String() string {
	return fmt.Sprintf("%s-%s-%s-%03d%s", b.CropPrefix, b.CountyCode, b.DateStamp, b.Sequence, b.Overflow)
}

func (b BatchCode) Key() Key {
	return Key{CropPrefix: b.CropPrefix, CountyCode: b.CountyCode, DateStamp: b.DateStamp, Overflow: b.Overflow}
}

// HarvestDate returns the calendar date encoded in the code (UTC midnight).
func (b BatchCode) HarvestDate() time.Time {
	t, _ := time.Parse(dateLayout, b.DateStamp)
	return t
}

// KeyFor derives the composite key from the registration inputs.
func KeyFor(cropType, county string, harvestDate time.Time) (Key, error) {
	if strings.TrimSpace(cropType) == "" {
		return Key{}, errs.Validation("crop_type", "is required")
	}
	if strings.TrimSpace(county) == "" {
		return Key{}, errs.Validation("county", "is required")
	}
	if harvestDate.IsZero() {
		return Key{}, errs.Validation("harvest_date", "is required")
	}
	if y := harvestDate.Year(); y < 1000 || y > 9999 {
		return Key{}, errs.Validation("harvest_date", "is not a valid calendar date")
	}

	prefix, err := CropPrefix(cropType)
	if err != nil {
		return Key{}, err
	}
	countyCode, err := CountyCode(county)
	if err != nil {
		return Key{}, err
	}

	return Key{
		CropPrefix: prefix,
		CountyCode: countyCode,
		DateStamp:  DateStamp(harvestDate),
	}, nil
}

// Generate builds the batch code for a crop, county, harvest date and an
// already allocated sequence number. It has no side effects.
func Generate(cropType, county string, harvestDate time.Time, sequence int) (BatchCode, error) {
	key, err := KeyFor(cropType, county, harvestDate)
	if err != nil {
		return BatchCode{}, err
	}
	return FromKey(key, sequence)
}

// FromKey formats a code from a key and a sequence allocated within it.
func FromKey(key Key, sequence int) (BatchCode, error) {
	if sequence < MinSequence || sequence > MaxSequence {
		return BatchCode{}, errs.Validation("sequence", fmt.Sprintf("must be between %d and %d", MinSequence, MaxSequence))
	}
	if key.Overflow != "" && (len(key.Overflow) != 1 || key.Overflow[0] < 'A' || key.Overflow[0] > 'Z') {
		return BatchCode{}, errs.Validation("overflow", "must be a single letter A-Z")
	}
	return BatchCode{
		CropPrefix: key.CropPrefix,
		CountyCode: key.CountyCode,
		DateStamp:  key.DateStamp,
		Sequence:   sequence,
		Overflow:   key.Overflow,
	}, nil
}

// Parse validates the canonical text form of a batch code.
func Parse(s string) (BatchCode, error) {
	m := parsePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return BatchCode{}, errs.Validation("batch_number", "must match XXX-YYY-YYYYMMDD-NNN")
	}
	if _, err := time.Parse(dateLayout, m[3]); err != nil {
		return BatchCode{}, errs.Validation("batch_number", "contains an invalid date")
	}
	seq, _ := strconv.Atoi(m[4])
	if seq < MinSequence {
		return BatchCode{}, errs.Validation("batch_number", "sequence must start at 001")
	}
	return BatchCode{
		CropPrefix: m[1],
		CountyCode: m[2],
		DateStamp:  m[3],
		Sequence:   seq,
		Overflow:   m[5],
	}, nil
}

func CropPrefix(cropType string) (string, error) {
	if c, ok := LookupCrop(cropType); ok {
		return c.Prefix, nil
	}
	prefix := firstLetters(cropType, 3)
	if len(prefix) < 3 {
		return "", errs.Validation("crop_type", "needs at least three letters")
	}
	return prefix, nil
}

func CountyCode(county string) (string, error) {
	words := strings.Fields(county)
	if len(words) == 0 {
		return "", errs.Validation("county", "is required")
	}
	code := firstLetters(words[0], 3)
	if len(code) < 3 {
		return "", errs.Validation("county", "first word needs at least three letters")
	}
	return code, nil
}

// DateStamp renders the calendar date of t as YYYYMMDD in t's own location.
func DateStamp(t time.Time) string {
	return t.Format(dateLayout)
}

func firstLetters(s string, n int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == n {
				break
			}
		}
	}
	return b.String()
}
