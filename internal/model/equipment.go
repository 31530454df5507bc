package model

// Equipment is a machine installed at a client site.
//
// ClientID is a plain reference: nothing guarantees the client exists, so
// readers resolve it through an explicit lookup.
type Equipment struct {
	ID                   string `json:"id"`
	ClientID             string `json:"clientId"`
	Type                 string `json:"type"`
	Brand                string `json:"brand"`
	Model                string `json:"model"`
	SerialNumber         string `json:"serialNumber"`
	AssetNumber          string `json:"assetNumber,omitempty"`
	ManufacturingYear    string `json:"manufacturingYear,omitempty"`
	InstallationLocation string `json:"installationLocation"`
	Condition            string `json:"condition"`
	Notes                string `json:"notes"`
}

// RecordID implements store.Record.
func (e Equipment) RecordID() string { return e.ID }

// Label is the short "Brand - Model" name used in lists and on the quote.
func (e Equipment) Label() string {
	return e.Brand + " - " + e.Model
}
