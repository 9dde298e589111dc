package couriers

import "strings"

// canonicalNames maps the courier identifier spellings seen in shipment data
// to one canonical key per carrier.
var canonicalNames = map[string]string{
	"delhivery":         "delhivery",
	"delhivery_surface": "delhivery",
	"delhivery express": "delhivery",
	"bluedart":          "bluedart",
	"blue_dart":         "bluedart",
	"blue dart":         "bluedart",
	"ekart":             "ekart",
	"ecom_express":      "ecom-express",
	"ecom express":      "ecom-express",
	"ecomexpress":       "ecom-express",
	"xpressbees":        "xpressbees",
	"dtdc":              "dtdc",
}

// Canonical normalizes a raw courier identifier. Unknown carriers pass
// through lower-cased so analytics can still group them.
func Canonical(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := canonicalNames[key]; ok {
		return canonical
	}
	return key
}
