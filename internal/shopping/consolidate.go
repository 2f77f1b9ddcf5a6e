package shopping

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
)

// Category is the aisle an ingredient is shopped in.
type Category string

const (
	CategoryProteins   Category = "Proteins"
	CategoryDairy      Category = "Dairy"
	CategoryVegetables Category = "Vegetables"
	CategoryFruits     Category = "Fruits"
	CategoryGrains     Category = "Grains"
	CategorySpices     Category = "Spices"
	CategoryOils       Category = "Oils"
	CategoryOther      Category = "Other"
)

// DefaultUnit is used for ingredients listed without a unit.
const DefaultUnit = "piece"

// categoryRules are checked in priority order, first match wins.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryProteins, []string{
		"chicken", "beef", "pork", "lamb", "turkey", "veal", "meat", "steak", "mince", "sausage",
		"bacon", "ham", "fish", "salmon", "tuna", "cod", "tilapia", "sardine", "shrimp", "prawn",
		"egg", "tofu", "tempeh", "seitan", "lentil", "chickpea", "bean", "protein",
	}},
	{CategoryDairy, []string{
		"milk", "cheese", "yogurt", "yoghurt", "butter", "cream", "labneh", "feta", "mozzarella",
		"parmesan", "ricotta", "cottage", "whey", "kefir",
	}},
	{CategoryVegetables, []string{
		"tomato", "onion", "garlic", "bell pepper", "lettuce", "spinach", "carrot", "broccoli",
		"cucumber", "zucchini", "potato", "kale", "cabbage", "celery", "mushroom", "cauliflower",
		"asparagus", "beet", "leek", "radish", "okra", "arugula", "squash", "pumpkin", "vegetable",
	}},
	{CategoryFruits, []string{
		"apple", "banana", "berry", "berries", "orange", "lemon", "lime", "mango", "grape", "pear",
		"peach", "pineapple", "date", "avocado", "kiwi", "melon", "cherry", "pomegranate", "fig", "fruit",
	}},
	{CategoryGrains, []string{
		"rice", "oat", "bread", "pasta", "quinoa", "flour", "wheat", "barley", "couscous", "noodle",
		"tortilla", "cereal", "bulgur", "corn", "granola", "pita",
	}},
	{CategorySpices, []string{
		"salt", "pepper", "cumin", "paprika", "cinnamon", "turmeric", "oregano", "basil", "thyme",
		"rosemary", "parsley", "cilantro", "coriander", "ginger", "chili", "spice", "seasoning",
		"herb", "vanilla", "nutmeg", "cardamom", "mint",
	}},
	{CategoryOils, []string{
		"oil", "ghee", "margarine", "lard", "shortening",
	}},
}

// categoryPhrases win over categoryRules. They name ingredients whose
// keywords point to the wrong aisle ("egg" in eggplant, "butter" in peanut butter).
var categoryPhrases = []struct {
	phrase   string
	category Category
}{
	{"eggplant", CategoryVegetables},
	{"egg plant", CategoryVegetables},
	{"peppercorn", CategorySpices},
	{"peanut butter", CategoryProteins},
	{"almond butter", CategoryProteins},
	{"cashew butter", CategoryProteins},
	{"butternut", CategoryVegetables},
	{"coconut milk", CategoryOther},
	{"almond milk", CategoryOther},
	{"oat milk", CategoryOther},
	{"soy milk", CategoryOther},
	{"cream of tartar", CategoryOther},
	{"green bean", CategoryVegetables},
	{"sweet corn", CategoryVegetables},
	{"bell pepper", CategoryVegetables},
	{"chili pepper", CategoryVegetables},
}

// Categorize classifies an ingredient name, case-insensitively: known
// phrases first, then keywords in priority order.
func Categorize(name string) Category {
	lower := strings.ToLower(name)
	for _, p := range categoryPhrases {
		if strings.Contains(lower, p.phrase) {
			return p.category
		}
	}
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// CategoryPriority is the order categories are rendered in.
var CategoryPriority = []Category{
	CategoryProteins, CategoryDairy, CategoryVegetables, CategoryFruits,
	CategoryGrains, CategorySpices, CategoryOils, CategoryOther,
}

func categoryRank(c Category) int {
	for i, p := range CategoryPriority {
		if p == c {
			return i
		}
	}
	return len(CategoryPriority)
}

// Item is a consolidated shopping list line.
type Item struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Unit     string   `json:"unit"`
	Quantity float64  `json:"quantity"`
	Category Category `json:"category"`
}

// Result is the consolidated shopping list of a set of meals.
type Result struct {
	Items             []Item
	GroupedByCategory map[Category][]Item
}

// ItemKey is the aggregation key of an ingredient: lowercase name plus unit.
func ItemKey(name, unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = DefaultUnit
	}
	return strings.ToLower(strings.TrimSpace(name)) + "-" + unit
}

// Consolidate merges the ingredients of all meals into one list.
// Lines without a name are skipped. Unparseable quantities count as 1.
func Consolidate(meals []planner.MealRecord) Result {
	items := make([]Item, 0)
	index := make(map[string]int)

	for _, meal := range meals {
		for _, ing := range meal.Ingredients {
			name := strings.TrimSpace(ing.Name)
			if name == "" {
				continue
			}

			key := ItemKey(name, ing.Unit)
			qty := ParseQuantity(ing.Quantity)
			if i, ok := index[key]; ok {
				items[i].Quantity += qty
				continue
			}

			unit := strings.TrimSpace(ing.Unit)
			if unit == "" {
				unit = DefaultUnit
			}
			index[key] = len(items)
			items = append(items, Item{
				Key:      key,
				Name:     name,
				Unit:     unit,
				Quantity: qty,
				Category: Categorize(name),
			})
		}
	}

	grouped := make(map[Category][]Item)
	for _, item := range items {
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	return Result{Items: items, GroupedByCategory: grouped}
}

// Sorted returns the items ordered by category priority, then name, then unit.
func (r Result) Sorted() []Item {
	sorted := append([]Item(nil), r.Items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if ra, rb := categoryRank(a.Category), categoryRank(b.Category); ra != rb {
			return ra < rb
		}
		if na, nb := strings.ToLower(a.Name), strings.ToLower(b.Name); na != nb {
			return na < nb
		}
		return a.Unit < b.Unit
	})
	return sorted
}

// Categories lists the categories present in the result in priority order.
func (r Result) Categories() []Category {
	var out []Category
	for _, c := range CategoryPriority {
		if len(r.GroupedByCategory[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Lookup finds an item by its key.
func (r Result) Lookup(key string) (Item, bool) {
	for _, item := range r.Items {
		if item.Key == key {
			return item, true
		}
	}
	return Item{}, false
}

// ParseQuantity reads the leading number of s ("150g" is 150, "1.5 cups" is 1.5).
// Anything without a leading number is 1.
func ParseQuantity(s string) float64 {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 1
	}

	// optional exponent, only consumed when complete
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		start := exp
		for exp < len(s) && isDigit(s[exp]) {
			exp++
		}
		if exp > start {
			end = exp
		}
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 1
	}
	return f
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// FormatQuantity prints a quantity with at most two decimals and no trailing zeros.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(math.Round(q*100)/100, 'f', -1, 64)
}
