package reconciler

// Entity is a single contact in the ordered collection.
type Entity struct {
	// ID is the content-addressed identity of the contact: the lowercase hex
	// MD5 of the trimmed, lowercased email address.
	ID string `json:"id" yaml:"id"`

	// Email is the normalized email address.
	Email string `json:"email" yaml:"email"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// Active is the online status indicator.
	Active bool `json:"active" yaml:"active"`

	// AvatarURL is the resolved avatar location (empty for placeholders).
	AvatarURL string `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`

	// Avatar holds the raw avatar image bytes.
	Avatar []byte `json:"-" yaml:"-"`

	// Placeholder is set when profile resolution failed and the template
	// entity was substituted.
	Placeholder bool `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Collection is an ordered sequence of entities addressed by integer index.
type Collection []Entity

// Clone returns a copy of the collection that can be mutated without
// affecting the receiver.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// IDs returns the entity IDs in collection order.
func (c Collection) IDs() []string {
	ids := make([]string, len(c))
	for i, e := range c {
		ids[i] = e.ID
	}
	return ids
}

// IndexOf returns the position of the entity with the given ID, or -1.
func (c Collection) IndexOf(id string) int {
	for i, e := range c {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// MutationKind identifies the variant of a MutationRequest.
type MutationKind string

const (
	// KindDelete removes the entity at Index.
	KindDelete MutationKind = "Delete"

	// KindInsert inserts Entity at Index.
	KindInsert MutationKind = "Insert"

	// KindMove moves the entity at Index to To.
	KindMove MutationKind = "Move"

	// KindReload refreshes the entity at Index in place.
	KindReload MutationKind = "Reload"

	// KindRename changes the display name of the entity at Index.
	KindRename MutationKind = "Rename"
)

// MutationKinds lists every kind in a stable order, used for reporting.
var MutationKinds = []MutationKind{KindDelete, KindInsert, KindMove, KindReload, KindRename}

// IsStructural reports whether the kind changes collection length or order.
func (k MutationKind) IsStructural() bool {
	return k == KindDelete || k == KindInsert || k == KindMove
}

// MutationRequest is one proposed change in a batch.
//
// Indices always refer to positions in the collection as it existed before
// any mutation of the batch was applied.
type MutationRequest struct {
	Kind MutationKind `json:"kind" yaml:"kind"`

	// Index is the target position (source position for moves).
	Index int `json:"index" yaml:"index"`

	// To is the destination position of a move.
	To int `json:"to,omitempty" yaml:"to,omitempty"`

	// Entity is the payload of an insert.
	Entity *Entity `json:"entity,omitempty" yaml:"entity,omitempty"`

	// Name is the new display name of a rename. When empty the reconciler
	// asks Options.RenameFunc for one.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// DeleteAt builds a delete request.
func DeleteAt(index int) MutationRequest {
	return MutationRequest{Kind: KindDelete, Index: index}
}

// InsertAt builds an insert request.
func InsertAt(e Entity, index int) MutationRequest {
	return MutationRequest{Kind: KindInsert, Index: index, Entity: &e}
}

// MoveFrom builds a move request.
func MoveFrom(from, to int) MutationRequest {
	return MutationRequest{Kind: KindMove, Index: from, To: to}
}

// ReloadAt builds a reload request.
func ReloadAt(index int) MutationRequest {
	return MutationRequest{Kind: KindReload, Index: index}
}

// RenameAt builds a rename request. An empty name defers to Options.RenameFunc.
func RenameAt(index int, name string) MutationRequest {
	return MutationRequest{Kind: KindRename, Index: index, Name: name}
}

// ReplayKind identifies the visual operation a presentation layer performs.
type ReplayKind string

const (
	ReplayDelete  ReplayKind = "delete"
	ReplayInsert  ReplayKind = "insert"
	ReplayRefresh ReplayKind = "refresh"
)

// Animated reports whether the op belongs to the animated structural phase.
// Refresh ops never move a position and are replayed without animation.
func (k ReplayKind) Animated() bool {
	return k != ReplayRefresh
}

// ReplayOp is a single instruction for a presentation layer.
//
// Delete indices address the collection before the batch; insert indices
// address the collection after the batch. Refresh indices address the
// collection before any structural change.
type ReplayOp struct {
	Kind  ReplayKind `json:"kind" yaml:"kind"`
	Index int        `json:"index" yaml:"index"`

	// Entity carries the value to display for insert and refresh ops.
	Entity *Entity `json:"entity,omitempty" yaml:"entity,omitempty"`
}

// Options tunes a single Reconcile call.
type Options struct {
	// MinimumEntities is the collection size below which further mutation
	// should be disabled. Defaults to DefaultMinimumEntities.
	MinimumEntities int

	// RenameFunc produces a new name for a rename request without one.
	// Defaults to appending a marker to the current name.
	RenameFunc func(Entity) string

	// ReloadFunc refreshes an entity in place. Defaults to toggling Active.
	ReloadFunc func(Entity) Entity
}

// DefaultMinimumEntities matches the threshold the contacts list uses to
// disable "simulate changes".
const DefaultMinimumEntities = 2

// KindStats counts the outcome of one mutation kind in a batch.
type KindStats struct {
	Applied int `json:"applied" yaml:"applied"`
	Dropped int `json:"dropped" yaml:"dropped"`
}

// Result is the outcome of one Reconcile call.
type Result struct {
	// BatchID identifies the batch in logs and metrics.
	BatchID string `json:"batchId" yaml:"batchId"`

	// Next is the reconciled collection.
	Next Collection `json:"next" yaml:"next"`

	// Steps are the replay ops in emission order: every refresh first, then
	// deletes and inserts in request order.
	Steps []ReplayOp `json:"steps" yaml:"steps"`

	// MutationEnabled is false once Next has fewer than MinimumEntities.
	MutationEnabled bool `json:"mutationEnabled" yaml:"mutationEnabled"`

	// Stats holds per-kind applied/dropped counts.
	Stats map[MutationKind]KindStats `json:"stats" yaml:"stats"`
}

// Deleted returns the number of delete replay ops.
func (r Result) Deleted() int {
	return r.count(ReplayDelete)
}

// Inserted returns the number of insert replay ops.
func (r Result) Inserted() int {
	return r.count(ReplayInsert)
}

// Refreshed returns the number of refresh replay ops.
func (r Result) Refreshed() int {
	return r.count(ReplayRefresh)
}

func (r Result) count(kind ReplayKind) int {
	n := 0
	for _, s := range r.Steps {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// Applier is implemented by presentation layers that consume replay ops.
type Applier interface {
	// ApplyRefresh updates positions in place, without animation.
	ApplyRefresh(ops []ReplayOp)

	// ApplyStructural performs deletes (descending) then inserts
	// (ascending) as one animated batch.
	ApplyStructural(ops []ReplayOp)
}
