package impulse

import "strings"

// Planet is a named gravity environment: surface gravity pointing down
// the Y axis plus atmosphere density for the drag force.
type Planet struct {
	Name       string
	Gravity    Vec2
	AirDensity float64
}

// EarthGravity is the default world gravity.
func EarthGravity() Vec2 { return Vec2{0, -9.81} }

// EarthAirDensity is sea-level atmosphere density in kg/m^3.
const EarthAirDensity = 1.225

var planets = []Planet{
	{Name: "earth", Gravity: Vec2{0, -9.81}, AirDensity: EarthAirDensity},
	{Name: "moon", Gravity: Vec2{0, -1.62}, AirDensity: 0},
	{Name: "mars", Gravity: Vec2{0, -3.71}, AirDensity: 0.020},
	{Name: "jupiter", Gravity: Vec2{0, -24.79}, AirDensity: 0.16},
}

// PlanetByName looks up a preset environment, case-insensitively.
func PlanetByName(name string) (Planet, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range planets {
		if p.Name == name {
			return p, true
		}
	}
	return Planet{}, false
}

// Planets returns the preset environments in declaration order.
func Planets() []Planet {
	out := make([]Planet, len(planets))
	copy(out, planets)
	return out
}
