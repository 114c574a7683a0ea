package vec

import "fmt"

// Vec2 представляет целочисленные 2D координаты
type Vec2 struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Scale умножает обе компоненты на целый коэффициент
func (v Vec2) Scale(k int) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// String возвращает вектор в виде "(x,y)"
func (v Vec2) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}
