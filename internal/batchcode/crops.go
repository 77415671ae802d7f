// internal/batchcode/crops.go
package batchcode

import "strings"

type Crop struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Prefix string `json:"prefix"`
}

// Crops grown and registered in Liberia.
var Crops = []Crop{
	{Value: "coffee", Label: "Coffee", Prefix: "COF"},
	{Value: "cocoa", Label: "Cocoa", Prefix: "COC"},
	{Value: "rubber", Label: "Rubber", Prefix: "RUB"},
	{Value: "palm_oil", Label: "Palm Oil", Prefix: "PAL"},
	{Value: "rice", Label: "Rice", Prefix: "RIC"},
	{Value: "cassava", Label: "Cassava", Prefix: "CAS"},
	{Value: "plantain", Label: "Plantain", Prefix: "PLA"},
	{Value: "banana", Label: "Banana", Prefix: "BAN"},
	{Value: "sugarcane", Label: "Sugarcane", Prefix: "SUG"},
	{Value: "pepper", Label: "Pepper", Prefix: "PEP"},
	{Value: "ginger", Label: "Ginger", Prefix: "GIN"},
	{Value: "turmeric", Label: "Turmeric", Prefix: "TUR"},
	{Value: "kola_nut", Label: "Kola Nut", Prefix: "KOL"},
	{Value: "sesame", Label: "Sesame", Prefix: "SES"},
	{Value: "peanut", Label: "Peanut", Prefix: "PEA"},
}

// Counties of Liberia, as they appear on registration forms.
var Counties = []string{
	"Bomi County", "Bong County", "Gbarpolu County", "Grand Bassa County",
	"Grand Cape Mount County", "Grand Gedeh County", "Grand Kru County",
	"Lofa County", "Margibi County", "Maryland County", "Montserrado County",
	"Nimba County", "River Cess County", "River Gee County", "Sinoe County",
}

var cropsByValue = func() map[string]Crop {
	m := make(map[string]Crop, len(Crops))
	for _, c := range Crops {
		m[c.Value] = c
	}
	return m
}()

// NormalizeCrop turns "Palm Oil" or " palm_oil " into the catalog value "palm_oil".
func NormalizeCrop(cropType string) string {
	v := strings.ToLower(strings.TrimSpace(cropType))
	return strings.Join(strings.Fields(strings.ReplaceAll(v, "-", " ")), "_")
}

func LookupCrop(cropType string) (Crop, bool) {
	c, ok := cropsByValue[NormalizeCrop(cropType)]
	return c, ok
}

func IsKnownCrop(cropType string) bool {
	_, ok := LookupCrop(cropType)
	return ok
}

// CropLabel returns the display name of a crop; unknown crops get a
// title-cased version of their value.
func CropLabel(cropType string) string {
	if c, ok := LookupCrop(cropType); ok {
		return c.Label
	}
	words := strings.Fields(strings.ReplaceAll(NormalizeCrop(cropType), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
