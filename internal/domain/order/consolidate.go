package order

// Consolidate merges duplicate cart entries for the same product into one
// line with the quantities summed. Output order is deterministic: each
// product keeps the position where it was first seen.
func Consolidate(items []CartItem) ([]CartItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	index := make(map[string]int, len(items))
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: it.ProductID, Quantity: it.Quantity}
		}
		if i, ok := index[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out, nil
}
