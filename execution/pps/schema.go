package pps

import (
	"github.com/delftdata/Gaia/execution"
)

var ProductSchema = &execution.Schema{
	Name: "product",
	ID:   0,
	Columns: []execution.Column{
		{Name: "id", Type: execution.Int32Type},
		{Name: "name", Type: execution.FixedTextType, Size: productNameLength},
	},
	PKCols: 1,
}

var PartSchema = &execution.Schema{
	Name: "part",
	ID:   1,
	Columns: []execution.Column{
		{Name: "id", Type: execution.Int32Type},
		{Name: "amount", Type: execution.Int64Type},
		{Name: "name", Type: execution.FixedTextType, Size: partNameLength},
	},
	PKCols: 1,
}

var SupplierSchema = &execution.Schema{
	Name: "supplier",
	ID:   2,
	Columns: []execution.Column{
		{Name: "id", Type: execution.Int32Type},
		{Name: "name", Type: execution.FixedTextType, Size: supplierNameLength},
	},
	PKCols: 1,
}

var ProductPartsSchema = &execution.Schema{
	Name: "product_parts",
	ID:   3,
	Columns: []execution.Column{
		{Name: "product_id", Type: execution.Int32Type},
		{Name: "slot", Type: execution.Int32Type},
		{Name: "part_id", Type: execution.Int32Type},
	},
	PKCols: 2,
}

var SupplierPartsSchema = &execution.Schema{
	Name: "supplier_parts",
	ID:   4,
	Columns: []execution.Column{
		{Name: "supplier_id", Type: execution.Int32Type},
		{Name: "slot", Type: execution.Int32Type},
		{Name: "part_id", Type: execution.Int32Type},
	},
	PKCols: 2,
}

// Value-column indices.
const (
	ColProductName = 0

	ColPartAmount = 0
	ColPartName   = 1

	ColSupplierName = 0

	ColProductPartsPartID = 0

	ColSupplierPartsPartID = 0
)
