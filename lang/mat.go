package lang

// Matrices are stored column-major: each element is one column.

type Mat2 [2]Vec2

type Mat3 [3]Vec3

type Mat4 [4]Vec4

func (m Mat2) Transform(v Vec2) Vec2 {
	return m[0].Scale(v.X).Add(m[1].Scale(v.Y))
}

func (m Mat3) Transform(v Vec3) Vec3 {
	return m[0].Scale(v.X).Add(m[1].Scale(v.Y)).Add(m[2].Scale(v.Z))
}

// Transform returns m * v.
func (m Mat4) Transform(v Vec4) Vec4 {
	return m[0].Scale(v.X).Add(m[1].Scale(v.Y)).Add(m[2].Scale(v.Z)).Add(m[3].Scale(v.W))
}

// Mul returns m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	return Mat4{m.Transform(n[0]), m.Transform(n[1]), m.Transform(n[2]), m.Transform(n[3])}
}

func Identity4() Mat4 {
	return Mat4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}
