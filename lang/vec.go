package lang

import "math"

//
// Float vectors
//

type Vec2 struct {
	X, Y float32
}

type Vec3 struct {
	X, Y, Z float32
}

type Vec4 struct {
	X, Y, Z, W float32
}

func V2(x, y float32) Vec2 {
	return Vec2{x, y}
}

func V3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

func V4(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 extends v with a w component, like `vec4(v, w)`.
func V4FromV3(v Vec3, w float32) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// V4FromV2 extends v with z and w components, like `vec4(v, z, w)`.
func V4FromV2(v Vec2, z, w float32) Vec4 {
	return Vec4{v.X, v.Y, z, w}
}

func V3FromV2(v Vec2, z float32) Vec3 {
	return Vec3{v.X, v.Y, z}
}

func (v Vec2) Add(u Vec2) Vec2 { return Vec2{v.X + u.X, v.Y + u.Y} }
func (v Vec2) Sub(u Vec2) Vec2 { return Vec2{v.X - u.X, v.Y - u.Y} }
func (v Vec2) Mul(u Vec2) Vec2 { return Vec2{v.X * u.X, v.Y * u.Y} }
func (v Vec2) Div(u Vec2) Vec2 { return Vec2{v.X / u.X, v.Y / u.Y} }
func (v Vec2) Scale(f float32) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}
func (v Vec2) Neg() Vec2           { return Vec2{-v.X, -v.Y} }
func (v Vec2) Dot(u Vec2) float32  { return v.X*u.X + v.Y*u.Y }
func (v Vec2) Length() float32     { return Sqrt(v.Dot(v)) }
func (v Vec2) Normalize() Vec2     { return v.Scale(1 / v.Length()) }
func (v Vec2) Mix(u Vec2, t float32) Vec2 {
	return v.Scale(1 - t).Add(u.Scale(t))
}

func (v Vec3) Add(u Vec3) Vec3 { return Vec3{v.X + u.X, v.Y + u.Y, v.Z + u.Z} }
func (v Vec3) Sub(u Vec3) Vec3 { return Vec3{v.X - u.X, v.Y - u.Y, v.Z - u.Z} }
func (v Vec3) Mul(u Vec3) Vec3 { return Vec3{v.X * u.X, v.Y * u.Y, v.Z * u.Z} }
func (v Vec3) Div(u Vec3) Vec3 { return Vec3{v.X / u.X, v.Y / u.Y, v.Z / u.Z} }
func (v Vec3) Scale(f float32) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}
func (v Vec3) Neg() Vec3          { return Vec3{-v.X, -v.Y, -v.Z} }
func (v Vec3) Dot(u Vec3) float32 { return v.X*u.X + v.Y*u.Y + v.Z*u.Z }
func (v Vec3) Cross(u Vec3) Vec3 {
	return Vec3{v.Y*u.Z - v.Z*u.Y, v.Z*u.X - v.X*u.Z, v.X*u.Y - v.Y*u.X}
}
func (v Vec3) Length() float32 { return Sqrt(v.Dot(v)) }
func (v Vec3) Normalize() Vec3 { return v.Scale(1 / v.Length()) }
func (v Vec3) Mix(u Vec3, t float32) Vec3 {
	return v.Scale(1 - t).Add(u.Scale(t))
}
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

func (v Vec4) Add(u Vec4) Vec4 { return Vec4{v.X + u.X, v.Y + u.Y, v.Z + u.Z, v.W + u.W} }
func (v Vec4) Sub(u Vec4) Vec4 { return Vec4{v.X - u.X, v.Y - u.Y, v.Z - u.Z, v.W - u.W} }
func (v Vec4) Mul(u Vec4) Vec4 { return Vec4{v.X * u.X, v.Y * u.Y, v.Z * u.Z, v.W * u.W} }
func (v Vec4) Div(u Vec4) Vec4 { return Vec4{v.X / u.X, v.Y / u.Y, v.Z / u.Z, v.W / u.W} }
func (v Vec4) Scale(f float32) Vec4 {
	return Vec4{v.X * f, v.Y * f, v.Z * f, v.W * f}
}
func (v Vec4) Neg() Vec4          { return Vec4{-v.X, -v.Y, -v.Z, -v.W} }
func (v Vec4) Dot(u Vec4) float32 { return v.X*u.X + v.Y*u.Y + v.Z*u.Z + v.W*u.W }
func (v Vec4) Length() float32    { return Sqrt(v.Dot(v)) }
func (v Vec4) Normalize() Vec4    { return v.Scale(1 / v.Length()) }
func (v Vec4) Mix(u Vec4, t float32) Vec4 {
	return v.Scale(1 - t).Add(u.Scale(t))
}
func (v Vec4) XY() Vec2  { return Vec2{v.X, v.Y} }
func (v Vec4) XYZ() Vec3 { return Vec3{v.X, v.Y, v.Z} }

//
// Integer vectors
//

type IVec2 struct {
	X, Y int32
}

type IVec3 struct {
	X, Y, Z int32
}

type IVec4 struct {
	X, Y, Z, W int32
}

type UVec2 struct {
	X, Y uint32
}

type UVec3 struct {
	X, Y, Z uint32
}

type UVec4 struct {
	X, Y, Z, W uint32
}

//
// Scalar math
//

func Sqrt(x float32) float32 { return float32(math.Sqrt(float64(x))) }
func Sin(x float32) float32  { return float32(math.Sin(float64(x))) }
func Cos(x float32) float32  { return float32(math.Cos(float64(x))) }
func Tan(x float32) float32  { return float32(math.Tan(float64(x))) }
func Abs(x float32) float32  { return float32(math.Abs(float64(x))) }
func Floor(x float32) float32 {
	return float32(math.Floor(float64(x)))
}
func Fract(x float32) float32 { return x - Floor(x) }
func Pow(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}
func Exp(x float32) float32 { return float32(math.Exp(float64(x))) }
func Min(x, y float32) float32 {
	if x < y {
		return x
	}
	return y
}
func Max(x, y float32) float32 {
	if x > y {
		return x
	}
	return y
}
func Clamp(x, lo, hi float32) float32 { return Min(Max(x, lo), hi) }
func Mix(x, y, t float32) float32     { return x*(1-t) + y*t }
func Step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}
