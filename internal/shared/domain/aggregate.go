package domain

// BaseAggregateRoot carries the optimistic concurrency version checked by
// repositories on write. Change events are derived from snapshots by the
// caller, not buffered on the aggregate.
type BaseAggregateRoot struct {
	BaseEntity
	version int
}

// NewBaseAggregateRoot creates a new, never persisted aggregate root.
func NewBaseAggregateRoot(id string) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(id)}
}

// RehydrateBaseAggregateRoot recreates an aggregate from persisted state.
func RehydrateBaseAggregateRoot(entity BaseEntity, version int) BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: entity, version: version}
}

// Version returns the version the aggregate was loaded at.
// Zero means the aggregate has never been stored.
func (a *BaseAggregateRoot) Version() int {
	return a.version
}

// IsNew reports whether the aggregate has never been persisted.
func (a *BaseAggregateRoot) IsNew() bool {
	return a.version == 0
}

// SetVersion is called by repositories after a successful write.
func (a *BaseAggregateRoot) SetVersion(version int) {
	a.version = version
}
