package vec

import "math"

// Vec2Float представляет 2D координаты с плавающей точкой
type Vec2Float struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FromVec2 создает Vec2Float из Vec2
func FromVec2(v Vec2) Vec2Float {
	return Vec2Float{X: float64(v.X), Y: float64(v.Y)}
}

// Splat создает вектор с одинаковыми компонентами
func Splat(s float64) Vec2Float {
	return Vec2Float{X: s, Y: s}
}

// ToVec2 преобразует в целочисленные координаты (с отбрасыванием дробной части)
func (v Vec2Float) ToVec2() Vec2 {
	return Vec2{X: int(v.X), Y: int(v.Y)}
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2Float) Sub(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul умножает вектор на скаляр
func (v Vec2Float) Mul(scalar float64) Vec2Float {
	return Vec2Float{X: v.X * scalar, Y: v.Y * scalar}
}

// Div делит вектор на скаляр
func (v Vec2Float) Div(scalar float64) Vec2Float {
	return Vec2Float{X: v.X / scalar, Y: v.Y / scalar}
}

// Floor округляет обе компоненты вниз
func (v Vec2Float) Floor() Vec2Float {
	return Vec2Float{X: math.Floor(v.X), Y: math.Floor(v.Y)}
}

// Length возвращает длину вектора
func (v Vec2Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}
