package model

// Client is a customer company.
type Client struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TradingName       string `json:"tradingName"`
	CNPJ              string `json:"cnpj"`
	StateRegistration string `json:"stateRegistration,omitempty"`
	Address           string `json:"address"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
}

// RecordID implements store.Record.
func (c Client) RecordID() string { return c.ID }
