package checklist

// Category names of the default catalog, in response order.
const (
	Documents     = "Documents"
	Clothing      = "Clothing"
	Electronics   = "Electronics"
	Toiletries    = "Toiletries"
	Miscellaneous = "Miscellaneous"
)

// defaultCatalog is returned for every trip. Item text and order are part of
// the API contract.
var defaultCatalog = MustNew(
	Category{Name: Documents, Items: []string{
		"Passport",
		"Travel visa (if required)",
		"Flight tickets",
		"Hotel confirmation",
		"Travel insurance",
		"Driver's license",
	}},
	Category{Name: Clothing, Items: []string{
		"Underwear (7 pairs)",
		"Socks (7 pairs)",
		"T-shirts (5)",
		"Pants/Jeans (3)",
		"Sweater/Jacket",
		"Pajamas",
		"Comfortable walking shoes",
		"Sandals/flip-flops",
	}},
	Category{Name: Electronics, Items: []string{
		"Smartphone",
		"Phone charger",
		"Power bank",
		"Camera",
		"Laptop/Tablet",
		"Headphones",
		"Universal power adapter",
	}},
	Category{Name: Toiletries, Items: []string{
		"Toothbrush & toothpaste",
		"Shampoo & conditioner",
		"Body wash",
		"Deodorant",
		"Sunscreen",
		"Medications",
		"First aid kit",
		"Hand sanitizer",
	}},
	Category{Name: Miscellaneous, Items: []string{
		"Backpack/Daypack",
		"Water bottle",
		"Sunglasses",
		"Hat/Cap",
		"Umbrella",
		"Travel pillow",
		"Books/E-reader",
		"Snacks",
	}},
)

// Default returns the process-wide packing catalog. The value is shared and
// immutable; accessors hand out copies.
func Default() *Checklist {
	return defaultCatalog
}
