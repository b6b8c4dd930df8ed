package entity

// OutletUser is the signed-in outlet operator together with the reporting
// hierarchy fields attached to ledger entries.
type OutletUser struct {
	Outlet string `json:"outlet"`
	Name   string `json:"name"`
	ASM    string `json:"asm"`
	RSM    string `json:"rsm"`
	Zone   string `json:"zone"`
}
