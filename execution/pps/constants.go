// Package pps implements the products/parts/suppliers benchmark family.
package pps

const (
	// PartsPerProduct is the fixed number of slots in the product-to-parts
	// mapping.
	PartsPerProduct = 8
	// PartsPerSupplier is the fixed number of slots in the
	// supplier-to-parts mapping.
	PartsPerSupplier = 10

	productNameLength  = 10
	partNameLength     = 10
	supplierNameLength = 10
)
