package pps

import (
	"fmt"

	"github.com/delftdata/Gaia/execution"
)

// GetProduct reads the name of one product.
type GetProduct struct {
	execution.BaseTxn
	product execution.Table

	productID *execution.Int32Scalar

	productName *execution.FixedTextScalar
}

func NewGetProduct(adapter execution.StorageAdapter, productID int32) *GetProduct {
	return &GetProduct{
		product:   execution.NewTable(ProductSchema, adapter),
		productID: execution.NewInt32Scalar(productID),
	}
}

func (t *GetProduct) Read() bool {
	ok := true
	if res := t.product.Select([]execution.Scalar{t.productID}, ColProductName); len(res) > 0 {
		t.productName = res[0].(*execution.FixedTextScalar)
	} else {
		t.SetError(fmt.Sprintf("The product with id %d does not exist", t.productID.Value))
		ok = false
	}
	return ok
}

func (t *GetProduct) Compute() {}

func (t *GetProduct) Write() bool { return true }

// GetPart reads the name and amount of one part.
type GetPart struct {
	execution.BaseTxn
	part execution.Table

	partID *execution.Int32Scalar

	partName   *execution.FixedTextScalar
	partAmount *execution.Int64Scalar
}

func NewGetPart(adapter execution.StorageAdapter, partID int32) *GetPart {
	return &GetPart{
		part:   execution.NewTable(PartSchema, adapter),
		partID: execution.NewInt32Scalar(partID),
	}
}

func (t *GetPart) Read() bool {
	ok := true
	if res := t.part.Select([]execution.Scalar{t.partID}, ColPartName, ColPartAmount); len(res) > 0 {
		t.partName = res[0].(*execution.FixedTextScalar)
		t.partAmount = res[1].(*execution.Int64Scalar)
	} else {
		t.SetError("The part does not exist")
		ok = false
	}
	return ok
}

func (t *GetPart) Compute() {}

func (t *GetPart) Write() bool { return true }

// GetPartsByProduct looks up the part id in every slot of a product.
type GetPartsByProduct struct {
	execution.BaseTxn
	productParts execution.Table

	productID *execution.Int32Scalar

	PartsIDs []*execution.Int32Scalar
}

func NewGetPartsByProduct(adapter execution.StorageAdapter, productID int32) *GetPartsByProduct {
	t := &GetPartsByProduct{
		productParts: execution.NewTable(ProductPartsSchema, adapter),
		productID:    execution.NewInt32Scalar(productID),
	}
	t.PartsIDs = make([]*execution.Int32Scalar, PartsPerProduct)
	for i := range t.PartsIDs {
		t.PartsIDs[i] = execution.NewInt32Scalar(0)
	}
	return t
}

func (t *GetPartsByProduct) Read() bool {
	ok := true
	for i := range t.PartsIDs {
		slot := execution.NewInt32Scalar(int32(i + 1))
		res := t.productParts.Select([]execution.Scalar{t.productID, slot}, ColProductPartsPartID)
		if len(res) == 0 {
			t.SetError("The part does not exist")
			ok = false
		} else {
			t.PartsIDs[i] = res[0].(*execution.Int32Scalar)
		}
	}
	return ok
}

func (t *GetPartsByProduct) Compute() {}

func (t *GetPartsByProduct) Write() bool { return true }

// GetPartsBySupplier looks up the part id in every slot of a supplier.
type GetPartsBySupplier struct {
	execution.BaseTxn
	supplierParts execution.Table

	supplierID *execution.Int32Scalar

	PartsIDs []*execution.Int32Scalar
}

func NewGetPartsBySupplier(adapter execution.StorageAdapter, supplierID int32) *GetPartsBySupplier {
	t := &GetPartsBySupplier{
		supplierParts: execution.NewTable(SupplierPartsSchema, adapter),
		supplierID:    execution.NewInt32Scalar(supplierID),
	}
	t.PartsIDs = make([]*execution.Int32Scalar, PartsPerSupplier)
	for i := range t.PartsIDs {
		t.PartsIDs[i] = execution.NewInt32Scalar(0)
	}
	return t
}

func (t *GetPartsBySupplier) Read() bool {
	ok := true
	for i := range t.PartsIDs {
		slot := execution.NewInt32Scalar(int32(i + 1))
		res := t.supplierParts.Select([]execution.Scalar{t.supplierID, slot}, ColSupplierPartsPartID)
		if len(res) == 0 {
			t.SetError("The part does not exist")
			ok = false
		} else {
			t.PartsIDs[i] = res[0].(*execution.Int32Scalar)
		}
	}
	return ok
}

func (t *GetPartsBySupplier) Compute() {}

func (t *GetPartsBySupplier) Write() bool { return true }
