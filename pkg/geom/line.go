package geom

// verticalSlope is the slope magnitude past which a line is handled as vertical
const verticalSlope = 1000.0

// Line is an infinite line through PassThrough along Direction
type Line struct {
	PassThrough Vec2
	Direction   Vec2
}

// LineSegment is the finite part of a line between Start and End
type LineSegment struct {
	Start Vec2
	End   Vec2
}

// SqrLength returns the squared segment length
func (s LineSegment) SqrLength() float64 {
	return s.End.Sub(s.Start).SqrLen()
}

// Scale grows or shrinks the segment around its midpoint
func (s *LineSegment) Scale(scale float64) {
	mid := s.Start.Add(s.End).Scale(0.5)
	half := s.End.Sub(mid).Scale(scale)
	s.Start = mid.Sub(half)
	s.End = mid.Add(half)
}

// Line returns the line the segment lies on
func (s LineSegment) Line() Line {
	return Line{PassThrough: s.Start, Direction: s.End.Sub(s.Start)}
}

// Contains reports whether p, assumed to lie on the segment's line, is
// strictly between Start and End
func (s LineSegment) Contains(p Vec2) bool {
	return s.End.Sub(p).Dot(p.Sub(s.Start)) > 0
}

// SegmentsIntersect reports whether two segments cross each other
func SegmentsIntersect(a, b LineSegment) bool {
	p := LineIntersection(a.Line(), b.Line())
	return a.Contains(p) && b.Contains(p)
}

// LineIntersection returns the point where two lines meet, solving
// y = k·x + t for both. A line steeper than verticalSlope is treated as
// vertical through its PassThrough x. Parallel lines yield a point at
// infinity.
func LineIntersection(a, b Line) Vec2 {
	k1 := a.Direction.Y / a.Direction.X
	k2 := b.Direction.Y / b.Direction.X
	t1 := a.PassThrough.Y - k1*a.PassThrough.X
	t2 := b.PassThrough.Y - k2*b.PassThrough.X

	if isVertical(k1) {
		x := a.PassThrough.X
		return Vec2{x, k2*x + t2}
	}
	if isVertical(k2) {
		x := b.PassThrough.X
		return Vec2{x, k1*x + t1}
	}

	x := (t2 - t1) / (k1 - k2)
	return Vec2{x, k1*x + t1}
}

// isVertical also catches the ±Inf and NaN slopes of a zero X direction
func isVertical(k float64) bool {
	return !(k >= -verticalSlope && k <= verticalSlope)
}
