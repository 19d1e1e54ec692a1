package pps

import (
	"fmt"

	"github.com/delftdata/Gaia/execution"
)

// OrderParts decrements the amount of each given part by one.
type OrderParts struct {
	execution.BaseTxn
	part execution.Table

	partsIDs []*execution.Int32Scalar

	partsAmounts []*execution.Int64Scalar

	newPartsAmounts []*execution.Int64Scalar
}

func NewOrderParts(adapter execution.StorageAdapter, partsIDs []int32) *OrderParts {
	t := &OrderParts{part: execution.NewTable(PartSchema, adapter)}
	for _, id := range partsIDs {
		t.partsIDs = append(t.partsIDs, execution.NewInt32Scalar(id))
		t.partsAmounts = append(t.partsAmounts, execution.NewInt64Scalar(0))
		t.newPartsAmounts = append(t.newPartsAmounts, execution.NewInt64Scalar(0))
	}
	return t
}

func (t *OrderParts) Read() bool {
	ok := true
	for i := range t.partsIDs {
		res := t.part.Select([]execution.Scalar{t.partsIDs[i]}, ColPartAmount)
		if len(res) == 0 {
			t.SetError("The part does not exist")
			ok = false
		} else {
			t.partsAmounts[i] = res[0].(*execution.Int64Scalar)
		}
	}
	return ok
}

func (t *OrderParts) Compute() {
	for i := range t.partsIDs {
		t.newPartsAmounts[i].Value = t.partsAmounts[i].Value - 1
	}
}

func (t *OrderParts) Write() bool {
	ok := true
	for i := range t.partsIDs {
		if !t.part.Update([]execution.Scalar{t.partsIDs[i]}, []int{ColPartAmount},
			[]execution.Scalar{t.newPartsAmounts[i]}) {
			t.SetError("Cannot update part")
			ok = false
		}
	}
	return ok
}

// OrderProduct verifies the product-to-parts mapping against the given part
// list and decrements each part's amount. It is the second phase of the
// dependent order_product flow; the part list comes from a preceding
// GetPartsByProduct.
type OrderProduct struct {
	execution.BaseTxn
	part         execution.Table
	productParts execution.Table

	productID *execution.Int32Scalar
	partsIDs  []*execution.Int32Scalar

	partsAmounts []*execution.Int64Scalar

	newPartsAmounts []*execution.Int64Scalar
}

func NewOrderProduct(adapter execution.StorageAdapter, productID int32, partsIDs []int32) *OrderProduct {
	t := &OrderProduct{
		part:         execution.NewTable(PartSchema, adapter),
		productParts: execution.NewTable(ProductPartsSchema, adapter),
		productID:    execution.NewInt32Scalar(productID),
	}
	for _, id := range partsIDs {
		t.partsIDs = append(t.partsIDs, execution.NewInt32Scalar(id))
		t.partsAmounts = append(t.partsAmounts, execution.NewInt64Scalar(0))
		t.newPartsAmounts = append(t.newPartsAmounts, execution.NewInt64Scalar(0))
	}
	return t
}

func (t *OrderProduct) Read() bool {
	if len(t.partsIDs) != PartsPerProduct {
		t.SetError("The number of parts is not correct")
		return false
	}

	ok := true
	for i := 0; i < PartsPerProduct; i++ {
		slot := execution.NewInt32Scalar(int32(i + 1))
		res := t.productParts.Select([]execution.Scalar{t.productID, slot}, ColProductPartsPartID)
		if len(res) == 0 {
			t.SetError("The product-part relationship does not exist")
			ok = false
		} else if partID := res[0].(*execution.Int32Scalar); partID.Value != t.partsIDs[i].Value {
			t.SetError(fmt.Sprintf("The part doesn't correspond to the product (%d != %d)",
				partID.Value, t.partsIDs[i].Value))
			ok = false
		}
	}
	for i := range t.partsIDs {
		res := t.part.Select([]execution.Scalar{t.partsIDs[i]}, ColPartAmount)
		if len(res) == 0 {
			t.SetError("The part does not exist")
			ok = false
		} else {
			t.partsAmounts[i] = res[0].(*execution.Int64Scalar)
		}
	}
	return ok
}

func (t *OrderProduct) Compute() {
	for i := range t.partsIDs {
		t.newPartsAmounts[i].Value = t.partsAmounts[i].Value - 1
	}
}

func (t *OrderProduct) Write() bool {
	ok := true
	for i := range t.partsIDs {
		if !t.part.Update([]execution.Scalar{t.partsIDs[i]}, []int{ColPartAmount},
			[]execution.Scalar{t.newPartsAmounts[i]}) {
			t.SetError("Cannot update part")
			ok = false
		}
	}
	return ok
}

// SupplierRestock verifies the supplier-to-parts mapping and increments each
// part's amount.
type SupplierRestock struct {
	execution.BaseTxn
	part          execution.Table
	supplierParts execution.Table

	supplierID *execution.Int32Scalar
	partsIDs   []*execution.Int32Scalar

	partsAmounts []*execution.Int64Scalar

	newPartsAmounts []*execution.Int64Scalar
}

func NewSupplierRestock(adapter execution.StorageAdapter, supplierID int32, partsIDs []int32) *SupplierRestock {
	t := &SupplierRestock{
		part:          execution.NewTable(PartSchema, adapter),
		supplierParts: execution.NewTable(SupplierPartsSchema, adapter),
		supplierID:    execution.NewInt32Scalar(supplierID),
	}
	for _, id := range partsIDs {
		t.partsIDs = append(t.partsIDs, execution.NewInt32Scalar(id))
		t.partsAmounts = append(t.partsAmounts, execution.NewInt64Scalar(0))
		t.newPartsAmounts = append(t.newPartsAmounts, execution.NewInt64Scalar(0))
	}
	return t
}

func (t *SupplierRestock) Read() bool {
	if len(t.partsIDs) != PartsPerSupplier {
		t.SetError("The number of parts is not correct")
		return false
	}

	ok := true
	for i := 0; i < PartsPerSupplier; i++ {
		slot := execution.NewInt32Scalar(int32(i + 1))
		res := t.supplierParts.Select([]execution.Scalar{t.supplierID, slot}, ColSupplierPartsPartID)
		if len(res) == 0 {
			t.SetError("The supplier-part relationship does not exist")
			ok = false
		} else if partID := res[0].(*execution.Int32Scalar); partID.Value != t.partsIDs[i].Value {
			t.SetError("The part doesn't correspond to the supplier")
			ok = false
		}
	}
	for i := range t.partsIDs {
		res := t.part.Select([]execution.Scalar{t.partsIDs[i]}, ColPartAmount)
		if len(res) == 0 {
			t.SetError("The part does not exist")
			ok = false
		} else {
			t.partsAmounts[i] = res[0].(*execution.Int64Scalar)
		}
	}
	return ok
}

func (t *SupplierRestock) Compute() {
	for i := range t.partsIDs {
		t.newPartsAmounts[i].Value = t.partsAmounts[i].Value + 1
	}
}

func (t *SupplierRestock) Write() bool {
	ok := true
	for i := range t.partsIDs {
		if !t.part.Update([]execution.Scalar{t.partsIDs[i]}, []int{ColPartAmount},
			[]execution.Scalar{t.newPartsAmounts[i]}) {
			t.SetError("Cannot update part")
			ok = false
		}
	}
	return ok
}

// UpdateProductPart swaps the part ids in the first and last slot of a
// product.
type UpdateProductPart struct {
	execution.BaseTxn
	productParts execution.Table

	productID *execution.Int32Scalar

	partIDFirst *execution.Int32Scalar
	partIDLast  *execution.Int32Scalar
}

func NewUpdateProductPart(adapter execution.StorageAdapter, productID int32) *UpdateProductPart {
	return &UpdateProductPart{
		productParts: execution.NewTable(ProductPartsSchema, adapter),
		productID:    execution.NewInt32Scalar(productID),
		partIDFirst:  execution.NewInt32Scalar(0),
		partIDLast:   execution.NewInt32Scalar(0),
	}
}

func (t *UpdateProductPart) Read() bool {
	ok := true
	first := t.productParts.Select(
		[]execution.Scalar{t.productID, execution.NewInt32Scalar(1)}, ColProductPartsPartID)
	if len(first) == 0 {
		t.SetError("Cannot find the first part id")
		ok = false
	} else {
		t.partIDFirst = first[0].(*execution.Int32Scalar)
	}
	last := t.productParts.Select(
		[]execution.Scalar{t.productID, execution.NewInt32Scalar(PartsPerProduct)}, ColProductPartsPartID)
	if len(last) == 0 {
		t.SetError("Cannot find the last part id")
		ok = false
	} else {
		t.partIDLast = last[0].(*execution.Int32Scalar)
	}
	return ok
}

func (t *UpdateProductPart) Compute() {}

func (t *UpdateProductPart) Write() bool {
	ok := true
	if !t.productParts.Update(
		[]execution.Scalar{t.productID, execution.NewInt32Scalar(1)},
		[]int{ColProductPartsPartID}, []execution.Scalar{t.partIDLast}) {
		t.SetError("Cannot update the first part id")
		ok = false
	}
	if !t.productParts.Update(
		[]execution.Scalar{t.productID, execution.NewInt32Scalar(PartsPerProduct)},
		[]int{ColProductPartsPartID}, []execution.Scalar{t.partIDFirst}) {
		t.SetError("Cannot update the last part id")
		ok = false
	}
	return ok
}
