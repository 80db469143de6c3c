package obj

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gunrunner/common"
	"github.com/milk9111/gunrunner/prefabs"
)

const (
	// groundSkin is how far below a body's feet ground still counts as
	// standing on it.
	groundSkin = 0.05
	contactEps = 1e-6
)

// CollisionWorld holds the static level geometry in a chipmunk space. It
// only answers queries; bodies are moved by the kinematics system.
type CollisionWorld struct {
	space *cp.Space
	boxes []Box
}

// Box is one static collision box.
type Box struct {
	BB       cp.BB
	Category uint
}

func NewCollisionWorld() *CollisionWorld {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return &CollisionWorld{space: space}
}

// NewCollisionWorldFromLevel builds the static boxes of a level.
func NewCollisionWorldFromLevel(level *prefabs.LevelSpec) (*CollisionWorld, error) {
	cw := NewCollisionWorld()
	if level == nil {
		return cw, nil
	}
	for i, box := range level.Geometry {
		category, ok := prefabs.ParseCategory(box.Category)
		if !ok {
			return nil, fmt.Errorf("collision world: geometry %d: unknown category %q", i, box.Category)
		}
		cw.AddBox(cp.BB{L: box.Min.X, B: box.Min.Y, R: box.Max.X, T: box.Max.Y}, category)
	}
	return cw, nil
}

// AddBox adds a static box whose collision category is one of the
// common.Category bits.
func (cw *CollisionWorld) AddBox(bb cp.BB, category uint) {
	shape := cp.NewBox2(cw.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, category, cp.ALL_CATEGORIES))
	cw.space.AddShape(shape)
	cw.boxes = append(cw.boxes, Box{BB: bb, Category: category})
}

// Space returns the underlying Chipmunk space.
func (cw *CollisionWorld) Space() *cp.Space {
	if cw == nil {
		return nil
	}
	return cw.space
}

func (cw *CollisionWorld) Boxes() []Box {
	return cw.boxes
}

// Query reports whether a box in one of mask's categories contains point.
func (cw *CollisionWorld) Query(point cp.Vector, mask uint) bool {
	if cw == nil || cw.space == nil {
		return false
	}
	info := cw.space.PointQueryNearest(point, 0, queryFilter(mask))
	return info != nil && info.Shape != nil
}

// Move sweeps a center-positioned box of the given size by displacement,
// resolving x before y, and reports whether it ends standing on ground.
// Boxes the body already overlaps do not block it, so a body can leave a
// platform it was pushed into.
func (cw *CollisionWorld) Move(position, size, displacement cp.Vector, mask uint) (cp.Vector, bool) {
	if cw == nil || cw.space == nil {
		return position.Add(displacement), false
	}
	half := size.Mult(0.5)
	pos := position
	pos.X = cw.sweepX(pos, half, displacement.X, mask)
	pos.Y = cw.sweepY(pos, half, displacement.Y, mask)
	return pos, cw.standing(pos, half, mask)
}

func (cw *CollisionWorld) sweepX(pos, half cp.Vector, dx float64, mask uint) float64 {
	if dx == 0 {
		return pos.X
	}
	from := bodyBB(pos, half)
	to := bodyBB(cp.Vector{X: pos.X + dx, Y: pos.Y}, half)
	target := pos.X + dx

	cw.each(from.Merge(to), mask, func(bb cp.BB) {
		if overlapsOpen(from, bb) {
			return
		}
		if bb.T <= from.B+contactEps || bb.B >= from.T-contactEps {
			return
		}
		if dx > 0 && bb.L >= from.R-contactEps {
			target = math.Min(target, bb.L-half.X)
		}
		if dx < 0 && bb.R <= from.L+contactEps {
			target = math.Max(target, bb.R+half.X)
		}
	})
	return target
}

func (cw *CollisionWorld) sweepY(pos, half cp.Vector, dy float64, mask uint) float64 {
	if dy == 0 {
		return pos.Y
	}
	from := bodyBB(pos, half)
	to := bodyBB(cp.Vector{X: pos.X, Y: pos.Y + dy}, half)
	target := pos.Y + dy

	cw.each(from.Merge(to), mask, func(bb cp.BB) {
		if overlapsOpen(from, bb) {
			return
		}
		if bb.R <= from.L+contactEps || bb.L >= from.R-contactEps {
			return
		}
		if dy > 0 && bb.B >= from.T-contactEps {
			target = math.Min(target, bb.B-half.Y)
		}
		if dy < 0 && bb.T <= from.B+contactEps {
			target = math.Max(target, bb.T+half.Y)
		}
	})
	return target
}

// standing reports whether a box top lies within groundSkin under the feet.
func (cw *CollisionWorld) standing(pos, half cp.Vector, mask uint) bool {
	feet := pos.Y - half.Y
	probe := cp.BB{L: pos.X - half.X, B: feet - groundSkin, R: pos.X + half.X, T: feet}
	grounded := false
	cw.each(probe, mask, func(bb cp.BB) {
		if bb.R <= probe.L+contactEps || bb.L >= probe.R-contactEps {
			return
		}
		if bb.T <= feet+contactEps && bb.T >= feet-groundSkin {
			grounded = true
		}
	})
	return grounded
}

func (cw *CollisionWorld) each(area cp.BB, mask uint, fn func(bb cp.BB)) {
	cw.space.BBQuery(area, queryFilter(mask), func(shape *cp.Shape, _ interface{}) {
		fn(shape.BB())
	}, nil)
}

func queryFilter(mask uint) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, mask)
}

func bodyBB(pos, half cp.Vector) cp.BB {
	return cp.BB{L: pos.X - half.X, B: pos.Y - half.Y, R: pos.X + half.X, T: pos.Y + half.Y}
}

// overlapsOpen reports whether two boxes share interior area.
func overlapsOpen(a, b cp.BB) bool {
	return a.L < b.R-contactEps && b.L < a.R-contactEps &&
		a.B < b.T-contactEps && b.B < a.T-contactEps
}
