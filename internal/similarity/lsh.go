package similarity

// Window signature parameters are configurable through the engine; these
// bound the generated candidate set.
const (
	// fnvOffset and fnvPrime are the 64-bit FNV-1a constants used to hash
	// window contents into bucket keys.
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

// bucketIndex groups addresses by hashed window signatures.
//
// Every address contributes one signature per window position. Two
// addresses sharing any unmodified window land in at least one common
// bucket, so a near pair is missed only when every window spans a
// differing digit. With window w and stride s <= w the windows tile the
// payload, which bounds misses to pairs whose edits are spread across
// all windows; such pairs score low anyway.
type bucketIndex struct {
	window  int
	stride  int
	buckets map[uint64][]int
}

// newBucketIndex builds the index over the canonical address values.
// Values shorter than the window get a single whole-value bucket so they
// are never silently dropped.
func newBucketIndex(values []string, window, stride int) *bucketIndex {
	idx := &bucketIndex{
		window:  window,
		stride:  stride,
		buckets: make(map[uint64][]int),
	}
	for i, v := range values {
		idx.insert(i, v)
	}
	return idx
}

func (idx *bucketIndex) insert(i int, value string) {
	if len(value) < idx.window {
		idx.add(windowHash(value, 0), i)
		return
	}
	last := len(value) - idx.window
	for off := 0; off <= last; off += idx.stride {
		idx.add(windowHash(value[off:off+idx.window], off), i)
	}
	// Always cover the tail so suffix-grinding pairs share a bucket even
	// when the stride does not divide the payload length.
	if last%idx.stride != 0 {
		idx.add(windowHash(value[last:], last), i)
	}
}

func (idx *bucketIndex) add(key uint64, i int) {
	idx.buckets[key] = append(idx.buckets[key], i)
}

// candidates calls fn once per candidate pair with i < j.
// Pairs appearing in several buckets are reported once per bucket; the
// engine deduplicates them through its per-call seen set before scoring.
func (idx *bucketIndex) candidates(fn func(i, j int)) {
	for _, members := range idx.buckets {
		for a := 0; a < len(members); a++ {
			for b := a + 1; b < len(members); b++ {
				i, j := members[a], members[b]
				if i > j {
					i, j = j, i
				}
				if i != j {
					fn(i, j)
				}
			}
		}
	}
}

// windowHash hashes a window together with its offset, so equal content at
// different positions lands in different buckets. Position matters: the
// metric only rewards aligned matches.
func windowHash(window string, offset int) uint64 {
	h := uint64(fnvOffset)
	h ^= uint64(offset)
	h *= fnvPrime
	for i := 0; i < len(window); i++ {
		h ^= uint64(window[i])
		h *= fnvPrime
	}
	return h
}
