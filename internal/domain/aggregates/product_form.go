package aggregates

var ProductFormContract = Contract{
	Name:             "Catalog.ProductForm",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns atomic save of one product and its keyed parcel rows; validation precedes the transaction.",
}
