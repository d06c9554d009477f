package models

// IDSet is a deduplicated, order-irrelevant collection of user IDs.
// Add and Remove are idempotent so repeated applications of the same
// mutation always converge to the same state.
type IDSet []uint

// Contains reports whether id is a member of the set.
func (s IDSet) Contains(id uint) bool {
	for _, member := range s {
		if member == id {
			return true
		}
	}
	return false
}

// Add inserts id into the set. Adding an existing member is a no-op.
func (s *IDSet) Add(id uint) {
	if s.Contains(id) {
		return
	}
	*s = append(*s, id)
}

// Remove deletes id from the set. Removing a non-member is a no-op.
func (s *IDSet) Remove(id uint) {
	for i, member := range *s {
		if member == id {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return
		}
	}
}

// Clone returns an independent copy of the set.
func (s IDSet) Clone() IDSet {
	if s == nil {
		return nil
	}
	out := make(IDSet, len(s))
	copy(out, s)
	return out
}
