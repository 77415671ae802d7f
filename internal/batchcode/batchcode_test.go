package batchcode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacra/agritrace-backend/internal/errs"
)

func harvest(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateCoffeeBomi(t *testing.T) {
	code, err := Generate("coffee", "Bomi County", harvest(2024, time.December, 22), 1)
	require.NoError(t, err)
	assert.Equal(t, "COF-BOM-20241222-001", code.String())
}

func TestGenerateIsDeterministic(t *testing.T) {
	date := harvest(2025, time.March, 3)
	first, err := Generate("cocoa", "Nimba County", date, 42)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		again, err := Generate("cocoa", "Nimba County", date, 42)
		require.NoError(t, err)
		assert.Equal(t, first.String(), again.String())
	}
}

func TestGenerateMatchesCanonicalFormat(t *testing.T) {
	date := harvest(2024, time.July, 9)
	for _, crop := range Crops {
		for _, county := range Counties {
			for _, seq := range []int{1, 17, 999} {
				code, err := Generate(crop.Value, county, date, seq)
				require.NoError(t, err, "%s %s %d", crop.Value, county, seq)
				assert.Regexp(t, CanonicalPattern, code.String())
			}
		}
	}
}

func TestGenerateUnmappedCropUsesFirstLetters(t *testing.T) {
	code, err := Generate("yam", "Lofa County", harvest(2024, time.January, 5), 7)
	require.NoError(t, err)
	assert.Equal(t, "YAM-LOF-20240105-007", code.String())

	code, err = Generate("Sweet Potato", "Grand Gedeh County", harvest(2024, time.January, 5), 7)
	require.NoError(t, err)
	assert.Equal(t, "SWE-GRA-20240105-007", code.String())
}

func TestGenerateNormalizesKnownCrop(t *testing.T) {
	code, err := Generate("Palm Oil", "Margibi County", harvest(2024, time.May, 1), 3)
	require.NoError(t, err)
	assert.Equal(t, "PAL-MAR-20240501-003", code.String())
}

func TestGenerateValidationGate(t *testing.T) {
	date := harvest(2024, time.December, 22)
	cases := []struct {
		name  string
		crop  string
		cnty  string
		date  time.Time
		seq   int
		field string
	}{
		{"empty crop", "", "Bomi County", date, 1, "crop_type"},
		{"blank crop", "   ", "Bomi County", date, 1, "crop_type"},
		{"empty county", "coffee", "", date, 1, "county"},
		{"zero date", "coffee", "Bomi County", time.Time{}, 1, "harvest_date"},
		{"five digit year", "coffee", "Bomi County", harvest(12024, time.January, 1), 1, "harvest_date"},
		{"short crop", "xy", "Bomi County", date, 1, "crop_type"},
		{"short county word", "coffee", "Ka County", date, 1, "county"},
		{"sequence zero", "coffee", "Bomi County", date, 0, "sequence"},
		{"sequence overflow", "coffee", "Bomi County", date, 1000, "sequence"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, err := Generate(tc.crop, tc.cnty, tc.date, tc.seq)
			require.Error(t, err)
			assert.True(t, errs.IsKind(err, errs.KindValidation))
			assert.Equal(t, tc.field, errs.FieldOf(err))
			assert.Equal(t, BatchCode{}, code)
		})
	}
}

func TestDateStampUsesOwnLocation(t *testing.T) {
	monrovia := time.FixedZone("GMT", 0)
	late := time.Date(2024, time.December, 22, 23, 30, 0, 0, time.FixedZone("UTC-1", -3600))

	assert.Equal(t, "20241222", DateStamp(late))
	assert.Equal(t, "20241223", DateStamp(late.In(monrovia)))
}

func TestParseRoundTrip(t *testing.T) {
	code, err := Parse("COF-BOM-20241222-001")
	require.NoError(t, err)
	assert.Equal(t, BatchCode{CropPrefix: "COF", CountyCode: "BOM", DateStamp: "20241222", Sequence: 1}, code)
	assert.Equal(t, harvest(2024, time.December, 22), code.HarvestDate())

	widened, err := Parse("COF-BOM-20241222-014C")
	require.NoError(t, err)
	assert.Equal(t, "C", widened.Overflow)
	assert.Equal(t, "COF:BOM:20241222:C", widened.Key().String())
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"COF-BOM-20241222-01",
		"cof-bom-20241222-001",
		"COF-BOM-20241322-001",
		"COF-BOM-20241222-000",
		"COFF-BOM-20241222-001",
		"COF-BOM-20241222-001AB",
	} {
		_, err := Parse(s)
		assert.True(t, errs.IsKind(err, errs.KindValidation), s)
	}
}

func TestFromKeyWidened(t *testing.T) {
	key := Key{CropPrefix: "RIC", CountyCode: "BON", DateStamp: "20240611"}.Widen('A')
	code, err := FromKey(key, 5)
	require.NoError(t, err)
	assert.Equal(t, "RIC-BON-20240611-005A", code.String())
	assert.NotRegexp(t, CanonicalPattern, code.String())
}

func TestCropLabel(t *testing.T) {
	assert.Equal(t, "Kola Nut", CropLabel("kola_nut"))
	assert.Equal(t, "Sweet Potato", CropLabel("sweet potato"))
}
