package service

// roundingStep is the price granularity for customer-facing prices. Every
// computed sale price lands on a multiple of this value.
const roundingStep = 50

// PrecioVenta applies the reseller's margin percentage to a wholesale price
// and rounds the result up to the next multiple of 50.
func PrecioVenta(precioMayorista, margen int) int {
	if precioMayorista <= 0 {
		return 0
	}
	if margen < 0 {
		margen = 0
	}
	// Integer math: ceil(precio * (100 + margen) / 100).
	raw := (precioMayorista*(100+margen) + 99) / 100
	return RoundUpToStep(raw)
}

// RoundUpToStep rounds v up to the next multiple of the pricing step.
func RoundUpToStep(v int) int {
	if v <= 0 {
		return 0
	}
	rem := v % roundingStep
	if rem == 0 {
		return v
	}
	return v + roundingStep - rem
}
