package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type EnemyTag struct{}

var EnemyTagComponent = NewComponent[EnemyTag]()

type BossTag struct{}

var BossTagComponent = NewComponent[BossTag]()

// PendingRemoval marks an entity for destruction at the end of the tick.
type PendingRemoval struct{}

var PendingRemovalComponent = NewComponent[PendingRemoval]()
