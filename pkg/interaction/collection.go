package interaction

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Bucket holds the records of one drug pair keyed by RecordKey. An empty
// bucket means the pair was queried and no interaction is known.
type Bucket map[string]Record

// Collection groups interaction records by drug pair. It is built once per
// query and only appended to while a multi-drug report is assembled.
type Collection struct {
	pairs map[Key]Bucket
}

func NewCollection() Collection {
	return Collection{pairs: make(map[Key]Bucket)}
}

// NewPairCollection returns a collection with exactly one bucket, which is
// created even when records is empty.
func NewPairCollection(key Key, records ...Record) Collection {
	c := NewCollection()
	bucket := make(Bucket, len(records))
	for _, r := range records {
		bucket[RecordKey(r)] = r
	}
	c.pairs[key] = bucket
	return c
}

func (c *Collection) ensure() {
	if c.pairs == nil {
		c.pairs = make(map[Key]Bucket)
	}
}

// Add appends a single record under key.
func (c *Collection) Add(key Key, r Record) {
	c.ensure()
	bucket, ok := c.pairs[key]
	if !ok {
		bucket = make(Bucket)
		c.pairs[key] = bucket
	}
	bucket[RecordKey(r)] = r
}

// Put stores bucket under key as is. A nil bucket is stored as an empty one.
func (c *Collection) Put(key Key, bucket Bucket) {
	c.ensure()
	if bucket == nil {
		bucket = make(Bucket)
	}
	c.pairs[key] = bucket
}

// Merge inserts every bucket of other into c, empty ones included. A key
// present in both ends up with other's bucket.
func (c *Collection) Merge(other Collection) {
	for key, bucket := range other.pairs {
		c.Put(key, bucket)
	}
}

func (c Collection) Bucket(key Key) (Bucket, bool) {
	bucket, ok := c.pairs[key]
	return bucket, ok
}

// Keys returns the pair keys in lexical order.
func (c Collection) Keys() []Key {
	keys := make([]Key, 0, len(c.pairs))
	for k := range c.pairs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (c Collection) Len() int {
	return len(c.pairs)
}

func (c Collection) RecordCount() int {
	n := 0
	for _, bucket := range c.pairs {
		n += len(bucket)
	}
	return n
}

// SafePairs lists the pairs that were queried and have no known interaction.
func (c Collection) SafePairs() []Key {
	var out []Key
	for _, k := range c.Keys() {
		if len(c.pairs[k]) == 0 {
			out = append(out, k)
		}
	}
	return out
}

func (c Collection) InteractingPairs() []Key {
	var out []Key
	for _, k := range c.Keys() {
		if len(c.pairs[k]) > 0 {
			out = append(out, k)
		}
	}
	return out
}

// Records returns the bucket for key ordered by descending severity, then
// condition name.
func (c Collection) Records(key Key) []Record {
	bucket := c.pairs[key]
	out := make([]Record, 0, len(bucket))
	for _, r := range bucket {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return out[i].Severity > out[j].Severity
		}
		return out[i].ConditionName < out[j].ConditionName
	})
	return out
}

func (c Collection) String() string {
	var sb strings.Builder
	for i, k := range c.Keys() {
		fmt.Fprintf(&sb, "%d. Key: %s, Records: %d\n", i+1, k, len(c.pairs[k]))
	}
	return sb.String()
}

type wireCollection struct {
	Col map[Key]Bucket `json:"col"`
}

func (c Collection) MarshalJSON() ([]byte, error) {
	col := make(map[Key]Bucket, len(c.pairs))
	for k, bucket := range c.pairs {
		if bucket == nil {
			bucket = Bucket{}
		}
		col[k] = bucket
	}
	return json.Marshal(wireCollection{Col: col})
}

func (c *Collection) UnmarshalJSON(data []byte) error {
	var wire wireCollection
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*c = NewCollection()
	for k, bucket := range wire.Col {
		c.Put(k, bucket)
	}
	return nil
}
