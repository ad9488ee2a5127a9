package engine

// DisputeSet tracks transaction ids currently under an open dispute.
// Membership gates resolve/chargeback and drives log cleanup.
type DisputeSet struct {
	members map[uint32]struct{}
}

func NewDisputeSet() *DisputeSet {
	return &DisputeSet{
		members: make(map[uint32]struct{}),
	}
}

// Add inserts tx. Returns false if tx is already a member.
func (ds *DisputeSet) Add(tx uint32) bool {
	if _, exists := ds.members[tx]; exists {
		return false
	}
	ds.members[tx] = struct{}{}
	return true
}

// Remove deletes tx. Returns false if tx was not a member — removal is the
// atomic gate for resolve and chargeback.
func (ds *DisputeSet) Remove(tx uint32) bool {
	if _, exists := ds.members[tx]; !exists {
		return false
	}
	delete(ds.members, tx)
	return true
}

// Contains reports whether tx is currently disputed.
func (ds *DisputeSet) Contains(tx uint32) bool {
	_, exists := ds.members[tx]
	return exists
}

// Members returns the disputed transaction ids, in no particular order.
func (ds *DisputeSet) Members() []uint32 {
	txs := make([]uint32, 0, len(ds.members))
	for tx := range ds.members {
		txs = append(txs, tx)
	}
	return txs
}

// Len returns the number of open disputes.
func (ds *DisputeSet) Len() int {
	return len(ds.members)
}
