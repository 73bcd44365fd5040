package stimulus

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/lucent-sim/phosphene/sim"
)

// Position is a target's center in normalized [0,1] coordinates.
type Position struct {
	X, Y float32
}

// Velocity is a target's motion in normalized units per second.
type Velocity struct {
	X, Y float32
}

// Blob holds a target's visual footprint.
type Blob struct {
	Radius     float32 // normalized
	Brightness float32 // peak stimulation value
}

// TargetScene is a set of bright moving targets held as ECS entities and
// rasterized into per-eye stimulation images each frame. The right eye
// sees every target shifted by the stereo disparity.
type TargetScene struct {
	world  *ecs.World
	mapper *ecs.Map3[Position, Velocity, Blob]
	filter *ecs.Filter3[Position, Velocity, Blob]

	images    [sim.NumEyes]*sim.Image
	disparity float32
}

// NewTargetScene creates a scene of count targets with random positions
// and headings.
func NewTargetScene(w, h, count int, speed, radius, disparity float32, rng *rand.Rand) *TargetScene {
	world := ecs.NewWorld()

	sc := &TargetScene{
		world:     world,
		mapper:    ecs.NewMap3[Position, Velocity, Blob](world),
		filter:    ecs.NewFilter3[Position, Velocity, Blob](world),
		disparity: disparity,
	}
	for eye := 0; eye < sim.NumEyes; eye++ {
		sc.images[eye] = sim.NewImage(w, h)
	}

	for i := 0; i < count; i++ {
		pos := Position{
			X: radius + rng.Float32()*(1-2*radius),
			Y: radius + rng.Float32()*(1-2*radius),
		}
		// Random heading, fixed speed
		angle := rng.Float64() * 2 * 3.14159265
		vel := Velocity{
			X: speed * cos32(angle),
			Y: speed * sin32(angle),
		}
		blob := Blob{Radius: radius, Brightness: 1}
		sc.mapper.NewEntity(&pos, &vel, &blob)
	}

	return sc
}

// Step advances all targets by dt seconds, bouncing off the field edges,
// and redraws both eye images.
func (sc *TargetScene) Step(dt float32) {
	query := sc.filter.Query()
	for query.Next() {
		pos, vel, blob := query.Get()

		pos.X += vel.X * dt
		pos.Y += vel.Y * dt

		r := blob.Radius
		if pos.X < r {
			pos.X = r
			vel.X = -vel.X
		} else if pos.X > 1-r {
			pos.X = 1 - r
			vel.X = -vel.X
		}
		if pos.Y < r {
			pos.Y = r
			vel.Y = -vel.Y
		} else if pos.Y > 1-r {
			pos.Y = 1 - r
			vel.Y = -vel.Y
		}
	}

	for eye := 0; eye < sim.NumEyes; eye++ {
		sc.images[eye].Clear()
	}

	// Half the disparity to each eye, opposite directions.
	query = sc.filter.Query()
	for query.Next() {
		pos, _, blob := query.Get()
		drawDisc(sc.images[sim.EyeLeft], pos.X-sc.disparity/2, pos.Y, blob.Radius, blob.Brightness)
		drawDisc(sc.images[sim.EyeRight], pos.X+sc.disparity/2, pos.Y, blob.Radius, blob.Brightness)
	}
}

// Images returns the per-eye stimulation images.
func (sc *TargetScene) Images() [sim.NumEyes]*sim.Image {
	return sc.images
}

// Count returns the number of targets in the scene.
func (sc *TargetScene) Count() int {
	n := 0
	query := sc.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// drawDisc writes a soft disc into the image: full brightness at the
// center, quadratic falloff to zero at the radius. Overlapping discs
// keep the brighter value.
func drawDisc(img *sim.Image, cx, cy, radius, brightness float32) {
	px := cx * float32(img.W)
	py := cy * float32(img.H)
	pr := radius * float32(img.W)
	if pr < 1 {
		pr = 1
	}

	x0, x1 := int(px-pr), int(px+pr)+1
	y0, y1 := int(py-pr), int(py+pr)+1

	for y := y0; y <= y1; y++ {
		if y < 0 || y >= img.H {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= img.W {
				continue
			}
			dx := float32(x) + 0.5 - px
			dy := float32(y) + 0.5 - py
			d2 := (dx*dx + dy*dy) / (pr * pr)
			if d2 >= 1 {
				continue
			}
			v := brightness * (1 - d2)
			if v > img.At(x, y) {
				img.Set(x, y, v)
			}
		}
	}
}
