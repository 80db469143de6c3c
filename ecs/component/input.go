package component

// Intent is the normalized per-tick action request, independent of the input
// device. MoveX is -1, 0 or 1. AimX/AimY is the gun direction while firing.
type Intent struct {
	MoveX     float64
	Run       bool
	Jump      bool
	Fire      bool
	Secondary bool
	AimX      float64
	AimY      float64
}

var IntentComponent = NewComponent[Intent]()
