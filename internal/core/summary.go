package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   Category `json:"name"`
	Amount Money    `json:"value"`
}

// BucketTotal is the spend and transaction count of one period, month or year.
type BucketTotal struct {
	Key   string `json:"key"`
	Label string `json:"label,omitempty"`
	Start Date   `json:"start"`
	End   Date   `json:"end"`
	Spent Money  `json:"spent"`
	Count int    `json:"count"`
}
