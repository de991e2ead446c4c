package domain

import "time"

// FieldOfWork is the trade a company offers, stored as a short code.
type FieldOfWork string

const (
	FieldAirConditioner FieldOfWork = "AC"
	FieldAllInOne       FieldOfWork = "AIO"
	FieldCarpentry      FieldOfWork = "CAR"
	FieldElectricity    FieldOfWork = "ELE"
	FieldGardening      FieldOfWork = "GAR"
	FieldHomeMachines   FieldOfWork = "HM"
	FieldHousekeeping   FieldOfWork = "HK"
	FieldInteriorDesign FieldOfWork = "ID"
	FieldLocks          FieldOfWork = "LOC"
	FieldPainting       FieldOfWork = "PAI"
	FieldPlumbing       FieldOfWork = "PLU"
	FieldWaterHeaters   FieldOfWork = "WH"
)

// Choice pairs a stored code with its display label.
type Choice struct {
	Code  FieldOfWork `json:"code"`
	Label string      `json:"label"`
}

// FieldsOfWork lists the selectable trades in display order.
var FieldsOfWork = []Choice{
	{FieldAirConditioner, "Air Conditioner"},
	{FieldAllInOne, "All in One"},
	{FieldCarpentry, "Carpentry"},
	{FieldElectricity, "Electricity"},
	{FieldGardening, "Gardening"},
	{FieldHomeMachines, "Home Machines"},
	{FieldHousekeeping, "Housekeeping"},
	{FieldInteriorDesign, "Interior Design"},
	{FieldLocks, "Locks"},
	{FieldPainting, "Painting"},
	{FieldPlumbing, "Plumbing"},
	{FieldWaterHeaters, "Water Heaters"},
}

// Valid reports whether f is one of the known trade codes.
func (f FieldOfWork) Valid() bool {
	for _, c := range FieldsOfWork {
		if c.Code == f {
			return true
		}
	}
	return false
}

// Customer extends a User that books services.
type Customer struct {
	UserID string    `json:"user_id"`
	Birth  time.Time `json:"birth"`
}

// Company extends a User that offers services.
type Company struct {
	UserID string      `json:"user_id"`
	Field  FieldOfWork `json:"field"`
}

// Profile bundles a user with whichever extension row it owns.
type Profile struct {
	User     *User     `json:"user"`
	Customer *Customer `json:"customer,omitempty"`
	Company  *Company  `json:"company,omitempty"`
}
