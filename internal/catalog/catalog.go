package catalog

import "strings"

// Category identifies one trackable item family member (e.g. "mtg", "digital").
type Category string

const (
	CategoryYGO      Category = "ygo"
	CategoryPokemon  Category = "pkmn"
	CategoryMTG      Category = "mtg"
	CategoryPhysical Category = "physical"
	CategoryDigital  Category = "digital"
	CategoryAnime    Category = "anime"
	CategoryManga    Category = "manga"
)

// Family groups categories that share a notification destination and ledger.
type Family string

const (
	FamilyCards  Family = "cards"
	FamilyGames  Family = "games"
	FamilySeries Family = "series"
)

// LedgerKind selects which ledger table a category's rows belong to.
type LedgerKind string

const (
	LedgerPrice  LedgerKind = "price"
	LedgerStatus LedgerKind = "status"
)

// IdentityStrategy decides how an item is re-located on subsequent checks.
//
// IdentityLocator pins the item to the provider URL captured on first track,
// so a newer release with a similar name can never shadow it. IdentityName
// re-runs the catalog name search each time.
type IdentityStrategy string

const (
	IdentityLocator IdentityStrategy = "locator"
	IdentityName    IdentityStrategy = "name"
)

// Spec describes how the tracker handles one category.
type Spec struct {
	Category Category
	Family   Family
	Ledger   LedgerKind
	Identity IdentityStrategy
	// Provider is the key the provider registry resolves adapters by.
	Provider string
	// Noun names one unit of series progress ("episode", "chapter").
	// Empty for price categories.
	Noun string
	// ExactMatch restricts name search results to exact title matches.
	ExactMatch bool
}

var specs = map[Category]Spec{
	CategoryYGO:      {Category: CategoryYGO, Family: FamilyCards, Ledger: LedgerPrice, Identity: IdentityName, Provider: "cardmarket", ExactMatch: true},
	CategoryPokemon:  {Category: CategoryPokemon, Family: FamilyCards, Ledger: LedgerPrice, Identity: IdentityName, Provider: "cardmarket", ExactMatch: true},
	CategoryMTG:      {Category: CategoryMTG, Family: FamilyCards, Ledger: LedgerPrice, Identity: IdentityName, Provider: "cardmarket", ExactMatch: true},
	CategoryPhysical: {Category: CategoryPhysical, Family: FamilyGames, Ledger: LedgerPrice, Identity: IdentityLocator, Provider: "nedgame"},
	CategoryDigital:  {Category: CategoryDigital, Family: FamilyGames, Ledger: LedgerPrice, Identity: IdentityLocator, Provider: "steam"},
	CategoryAnime:    {Category: CategoryAnime, Family: FamilySeries, Ledger: LedgerStatus, Identity: IdentityName, Provider: "animeweb", Noun: "episode"},
	CategoryManga:    {Category: CategoryManga, Family: FamilySeries, Ledger: LedgerStatus, Identity: IdentityName, Provider: "mangaweb", Noun: "chapter"},
}

var allCategories = []Category{
	CategoryYGO,
	CategoryPokemon,
	CategoryMTG,
	CategoryPhysical,
	CategoryDigital,
	CategoryAnime,
	CategoryManga,
}

// All returns the ordered list of known categories.
func All() []Category {
	cp := make([]Category, len(allCategories))
	copy(cp, allCategories)
	return cp
}

// Parse converts user input into a known Category.
func Parse(value string) (Category, bool) {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := specs[normalized]
	return normalized, ok
}

// Lookup returns the handling spec for a category.
func Lookup(category Category) (Spec, bool) {
	spec, ok := specs[category]
	return spec, ok
}

// ByLedger returns the categories persisted in the given ledger, in canonical order.
func ByLedger(kind LedgerKind) []Category {
	out := make([]Category, 0, len(allCategories))
	for _, category := range allCategories {
		if specs[category].Ledger == kind {
			out = append(out, category)
		}
	}
	return out
}

// ByFamily returns the categories belonging to a family, in canonical order.
func ByFamily(family Family) []Category {
	out := make([]Category, 0, len(allCategories))
	for _, category := range allCategories {
		if specs[category].Family == family {
			out = append(out, category)
		}
	}
	return out
}

// ValidChoices renders the accepted category values for user-facing errors.
func ValidChoices() string {
	return `"ygo" (cards), "pkmn" (cards), "mtg" (cards), "physical" (games), "digital" (games), "anime" or "manga"`
}
