package mapper

// DisplayRecord is the denormalized shape of a customer record used by
// the list view and edit form: joined name, formatted phone, single
// line address, short display date.
type DisplayRecord struct {
	ID        int64
	AccountID int64
	FullName  string
	Email     string
	Phone     string
	// Address is the full single-line form of the address as edited in
	// the form; AddressDisplay is the shorter street+city rendering
	// shown in the list.
	Address        string
	AddressDisplay string
	City           string
	Company        string
	Status         string
	Balance        float64
	DateCreated    string
}
