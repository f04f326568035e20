package framesim

// Entity is a pooled game object.
type Entity struct {
	ID     int
	X, Y   float64
	VX, VY float64
	HP     int
}

// Reset clears the entity before it re-enters the pool.
func (e *Entity) Reset() {
	*e = Entity{}
}
