package entity

// Listing is one business record read from a detail panel.
// Every field is always set; a value that could not be read is the empty string.
type Listing struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
}

// HasPhone reports whether a phone number was captured.
func (l Listing) HasPhone() bool { return l.Phone != "" }

// HasWebsite reports whether a website was captured.
func (l Listing) HasWebsite() bool { return l.Website != "" }

// Key identifies a listing for duplicate detection in the run summary.
func (l Listing) Key() string {
	return l.Name + "\x00" + l.Address
}
