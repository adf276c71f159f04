package geom

// Vec2 is a 2D vector
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) SqrLen() float64 { return v.Dot(v) }

// IVec2 is a 2D integer vector, used for pixel positions
type IVec2 struct {
	X, Y int
}

func (v IVec2) Add(o IVec2) IVec2 { return IVec2{v.X + o.X, v.Y + o.Y} }

func (v IVec2) Sub(o IVec2) IVec2 { return IVec2{v.X - o.X, v.Y - o.Y} }
