package domain

import "time"

// FeeStructure is the current intended charge per (session, class). Mutable
// at any time by administrators; bills snapshot amounts at generation time, so
// edits here never rewrite history.
type FeeStructure struct {
	ID        int32              `json:"id"`
	SessionID int32              `json:"session_id"`
	ClassName string             `json:"class_name"`
	Items     []FeeStructureItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// FeeStructureItem maps one fee type to its base amount (paise). At most one
// item per (structure, feeType); upserts update the amount in place.
type FeeStructureItem struct {
	ID          int32  `json:"id"`
	StructureID int32  `json:"structure_id"`
	FeeTypeID   int32  `json:"fee_type_id"`
	FeeTypeName string `json:"fee_type_name"`
	AmountPaise int64  `json:"amount_paise"`
}

// ItemFor returns the structure item for the given fee type, or nil.
func (s *FeeStructure) ItemFor(feeTypeID int32) *FeeStructureItem {
	for i := range s.Items {
		if s.Items[i].FeeTypeID == feeTypeID {
			return &s.Items[i]
		}
	}
	return nil
}

// ItemNamed returns the structure item whose fee type has the given name,
// or nil. Used for the "Late Fee" lookup during generation.
func (s *FeeStructure) ItemNamed(name string) *FeeStructureItem {
	for i := range s.Items {
		if s.Items[i].FeeTypeName == name {
			return &s.Items[i]
		}
	}
	return nil
}
