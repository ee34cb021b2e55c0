package catalog

// DeliveryCharge is the flat delivery fee in BDT added to every order total.
const DeliveryCharge = 120

// marginPercent is applied on top of the base price and the result rounded up to the next 10 taka.
const marginPercent = 20

type Price struct {
	Selling int `json:"selling"`
	Total   int `json:"total"`
}

// CalculateSellingPrice maps a base price to the customer-facing selling price
// and the total including delivery.
func CalculateSellingPrice(basePrice int) Price {
	if basePrice <= 0 {
		return Price{Selling: 0, Total: DeliveryCharge}
	}
	selling := basePrice + basePrice*marginPercent/100
	if rem := selling % 10; rem != 0 {
		selling += 10 - rem
	}
	return Price{
		Selling: selling,
		Total:   selling + DeliveryCharge,
	}
}
