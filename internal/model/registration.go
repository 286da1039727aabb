package model

// Distributor is a row of the distributors table and the body of
// POST /register-distributor. Fields missing from the body stay nil and are
// stored as NULL. The password is stored as received.
type Distributor struct {
	ID          int64   `json:"id,omitempty"`
	Name        *string `json:"name"`
	Mobile      *string `json:"mobile"`
	Location    *string `json:"location"`
	ProductType *string `json:"product_type"`
	Password    *string `json:"password"`
}

// Farmer is a row of the farmers table and the body of POST /register-farmer.
type Farmer struct {
	ID       int64   `json:"id,omitempty"`
	Name     *string `json:"name"`
	Mobile   *string `json:"mobile"`
	Location *string `json:"location"`
	Password *string `json:"password"`
}
