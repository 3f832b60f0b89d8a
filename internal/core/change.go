package core

// Collection names a per-user document collection.
type Collection string

const (
	CollectionTransactions Collection = "transactions"
	CollectionRules        Collection = "rules"
	CollectionSettings     Collection = "settings"
	CollectionIncome       Collection = "income"
)

// Op is the kind of write that produced a Change.
type Op string

const (
	OpUpsert  Op = "upsert"
	OpDelete  Op = "delete"
	OpReplace Op = "replace"
)

// Change describes one committed write to a user's data.
type Change struct {
	UserID     string     `json:"userId"`
	Collection Collection `json:"collection"`
	ID         string     `json:"id,omitempty"`
	Op         Op         `json:"op"`
}
