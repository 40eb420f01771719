package domain

import "strings"

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var RaceTypes = []Option{
	{"federal_house", "U.S. House"},
	{"federal_senate", "U.S. Senate"},
	{"governor", "Governor"},
	{"state_leg", "State Legislature"},
	{"local", "Local / Municipal"},
	{"pac", "PAC"},
	{"super_pac", "Super PAC"},
	{"party_committee", "Party Committee"},
}

var Regions = []Option{
	{"northeast", "Northeast"},
	{"southeast", "Southeast"},
	{"midwest", "Midwest"},
	{"southwest", "Southwest"},
	{"west", "West"},
	{"national", "National"},
}

var BudgetTiers = []Option{
	{"under_25k", "Under $25K"},
	{"25k_50k", "$25K - $50K"},
	{"50k_100k", "$50K - $100K"},
	{"100k_250k", "$100K - $250K"},
	{"250k_500k", "$250K - $500K"},
	{"500k_1m", "$500K - $1M"},
	{"over_1m", "Over $1M"},
}

var PartyFocuses = []Option{
	{"democratic", "Democratic"},
	{"republican", "Republican"},
	{"bipartisan", "Bipartisan"},
	{"nonpartisan", "Nonpartisan"},
}

var CommitteeRoles = []Option{
	{"candidate", "Candidate"},
	{"campaign_manager", "Campaign Manager"},
	{"treasurer", "Treasurer"},
	{"finance_director", "Finance Director"},
	{"other_senior_staff", "Other Senior Staff"},
}

var ServiceCategories = []Option{
	{"texting", "SMS / Texting"},
	{"digital_ads", "Digital Advertising"},
	{"mail", "Direct Mail"},
	{"polling", "Polling / Research"},
	{"general_consulting", "General Consulting"},
	{"fundraising", "Fundraising"},
	{"field", "Field / Grassroots"},
	{"media_buying", "Media Buying"},
	{"creative", "Creative / Design"},
	{"opposition_research", "Opposition Research"},
	{"data_analytics", "Data / Analytics"},
	{"web_development", "Web Development"},
	{"video_production", "Video Production"},
	{"communications", "Communications / PR"},
	{"other", "Other"},
}

var PricingModels = []Option{
	{"flat_fee", "Flat Fee"},
	{"monthly_retainer", "Monthly Retainer"},
	{"percentage", "Percentage of Spend"},
	{"per_unit", "Per Unit"},
	{"hourly", "Hourly"},
}

var EvidenceTypes = []Option{
	{"invoice", "Invoice from vendor"},
	{"contract", "Contract / Agreement"},
	{"fec_screenshot", "FEC Filing Screenshot"},
	{"state_filing_screenshot", "State Filing Screenshot"},
	{"other", "Other documentation"},
}

var FlagReasons = []Option{
	{"defamatory", "Defamatory content"},
	{"fake", "Fake or fraudulent review"},
	{"identifies_reviewer", "Identifies the reviewer"},
	{"policy_violation", "Policy violation"},
	{"other", "Other"},
}

var RaceOutcomes = []Option{
	{"won", "Won"},
	{"lost", "Lost"},
	{"primary_only", "Primary Only"},
	{"prefer_not_to_say", "Prefer Not to Say"},
}

var stateToRegion = map[string]string{
	"CT": "northeast", "DE": "northeast", "MA": "northeast", "MD": "northeast",
	"ME": "northeast", "NH": "northeast", "NJ": "northeast", "NY": "northeast",
	"PA": "northeast", "RI": "northeast", "VT": "northeast", "DC": "northeast",
	"AL": "southeast", "AR": "southeast", "FL": "southeast", "GA": "southeast",
	"KY": "southeast", "LA": "southeast", "MS": "southeast", "NC": "southeast",
	"SC": "southeast", "TN": "southeast", "VA": "southeast", "WV": "southeast",
	"IA": "midwest", "IL": "midwest", "IN": "midwest", "KS": "midwest",
	"MI": "midwest", "MN": "midwest", "MO": "midwest", "ND": "midwest",
	"NE": "midwest", "OH": "midwest", "SD": "midwest", "WI": "midwest",
	"AZ": "southwest", "NM": "southwest", "OK": "southwest", "TX": "southwest",
	"AK": "west", "CA": "west", "CO": "west", "HI": "west", "ID": "west",
	"MT": "west", "NV": "west", "OR": "west", "UT": "west", "WA": "west", "WY": "west",
}

// RegionForState returns the region for a two-letter state code, or "" when unknown.
func RegionForState(state string) string {
	return stateToRegion[strings.ToUpper(strings.TrimSpace(state))]
}

func IsKnownState(state string) bool {
	_, ok := stateToRegion[strings.ToUpper(strings.TrimSpace(state))]
	return ok
}

func hasOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func labelFor(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func RaceTypeLabel(value string) string   { return labelFor(RaceTypes, value) }
func RegionLabel(value string) string     { return labelFor(Regions, value) }
func BudgetTierLabel(value string) string { return labelFor(BudgetTiers, value) }
func ServiceLabel(value string) string    { return labelFor(ServiceCategories, value) }
func FlagReasonLabel(value string) string { return labelFor(FlagReasons, value) }
func PricingModelLabel(value string) string {
	return labelFor(PricingModels, value)
}
